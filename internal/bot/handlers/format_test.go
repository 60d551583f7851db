package handlers

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "Hours and minutes", input: 2*time.Hour + 5*time.Minute, expected: "2ч 5м"},
		{name: "Exact hours", input: 12 * time.Hour, expected: "12ч 0м"},
		{name: "Minutes only", input: 5 * time.Minute, expected: "5м"},
		{name: "Seconds only", input: 30 * time.Second, expected: "30с"},
		{name: "Sub-second rounds", input: 900 * time.Millisecond, expected: "1с"},
		{name: "Zero", input: 0, expected: "0с"},
		{name: "Negative clamps", input: -time.Minute, expected: "0с"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatDuration(tt.input)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
