package titles_test

import (
	"testing"
	"unicode/utf8"

	"github.com/avdeev/karmabot/internal/titles"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short title untouched", input: "Гуру", expected: "Гуру"},
		{name: "Whitespace normalized", input: "  Высший   разум ", expected: "Высший разум"},
		{name: "Cyrillic cut by runes", input: "Искусственный интеллект", expected: "Искусственный ин"},
		{name: "Exactly at the limit", input: "1234567890123456", expected: "1234567890123456"},
		{name: "One over the limit", input: "12345678901234567", expected: "1234567890123456"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := titles.Truncate(tt.input)
			if got != tt.expected {
				t.Errorf("Truncate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if utf8.RuneCountInString(got) > titles.TitleRuneLimit {
				t.Errorf("Truncate(%q) is %d runes, over the limit", tt.input, utf8.RuneCountInString(got))
			}
		})
	}
}
