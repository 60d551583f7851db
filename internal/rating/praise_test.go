package rating_test

import (
	"strings"
	"testing"

	"github.com/avdeev/karmabot/internal/rating"
)

func TestIsPraiseReplyText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "Plus shortcut", input: "+", expected: true},
		{name: "Plus one shortcut", input: "+1", expected: true},
		{name: "Triple plus", input: "+++", expected: true},
		{name: "Plus with spaces", input: "  + 1 ", expected: true},
		{name: "Too many pluses", input: "++++", expected: false},
		{name: "Single praise token", input: "норм", expected: true},
		{name: "Praise with punctuation", input: "класс!!!", expected: true},
		{name: "Uppercase praise", input: "ТОП", expected: true},
		{name: "Yo folded", input: "чётко", expected: true},
		{name: "Stretched letters", input: "классссс", expected: true},
		{name: "Intensified praise", input: "очень круто", expected: true},
		{name: "Intensifier only", input: "очень", expected: false},
		{name: "Double intensifier praise", input: "ну просто огонь", expected: true},
		{name: "Unknown word", input: "спасибо", expected: false},
		{name: "Praise mixed with unknown word", input: "круто спасибо", expected: false},
		{name: "Too long", input: "очень очень очень очень круто", expected: false},
		{name: "Empty", input: "", expected: false},
		{name: "Whitespace only", input: "   ", expected: false},
		{name: "Ordinary sentence", input: "когда релиз?", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := rating.IsPraiseReplyText(tt.input)
			if got != tt.expected {
				t.Errorf("IsPraiseReplyText(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePraiseText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "Lowercase and split", input: "Очень Круто", expected: []string{"очень", "круто"}},
		{name: "Punctuation stripped", input: "класс, бро!", expected: []string{"класс", "бро"}},
		{name: "Yo folded to ye", input: "чёткий", expected: []string{"четкий"}},
		{name: "Runs compressed", input: "топпппчик", expected: []string{"топпчик"}},
		{name: "Double letters kept", input: "классно", expected: []string{"классно"}},
		{name: "Emoji dropped", input: "огонь 🔥🔥", expected: []string{"огонь"}},
		{name: "Empty", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := rating.NormalizePraiseText(tt.input)
			if strings.Join(got, " ") != strings.Join(tt.expected, " ") {
				t.Errorf("NormalizePraiseText(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
