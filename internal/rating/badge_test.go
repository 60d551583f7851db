package rating_test

import (
	"testing"

	"github.com/avdeev/karmabot/internal/rating"
)

func TestBadgeResolver_ForRating_Ladder(t *testing.T) {
	t.Parallel()

	resolver := rating.NewBadgeResolver(0, 0)

	tests := []struct {
		name     string
		rating   int64
		expected string
	}{
		{name: "Zero rating", rating: 0, expected: "Новичок"},
		{name: "First point", rating: 1, expected: "Ученик"},
		{name: "Below first threshold", rating: 249, expected: "Ученик"},
		{name: "Exactly on threshold", rating: 250, expected: "Знаток"},
		{name: "Mid band", rating: 750, expected: "Профи"},
		{name: "Master band", rating: 1000, expected: "Мастер"},
		{name: "Guru band", rating: 2500, expected: "Гуру"},
		{name: "Thinker band", rating: 5000, expected: "Мыслитель"},
		{name: "Sage band", rating: 10000, expected: "Мудрец"},
		{name: "Enlightened band", rating: 20000, expected: "Просветленный"},
		{name: "Just below oracle band", rating: 49999, expected: "Просветленный"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			badge := resolver.ForRating(tt.rating, 0)
			if badge.Name != tt.expected {
				t.Errorf("ForRating(%d, 0).Name = %q, want %q", tt.rating, badge.Name, tt.expected)
			}
		})
	}
}

func TestBadgeResolver_ForRating_DualNameBands(t *testing.T) {
	t.Parallel()

	resolver := rating.NewBadgeResolver(0, 0)

	tests := []struct {
		name       string
		rating     int64
		efficiency int
		expected   string
	}{
		{name: "Oracle below cutoff", rating: 50000, efficiency: 24, expected: "Оракул"},
		{name: "Genius at cutoff", rating: 50000, efficiency: 25, expected: "Гений"},
		{name: "Genius above cutoff", rating: 99999, efficiency: 90, expected: "Гений"},
		{name: "AI below cutoff", rating: 100000, efficiency: 29, expected: "Искусственный интеллект"},
		{name: "Supreme mind at cutoff", rating: 100000, efficiency: 30, expected: "Высший разум"},
		{name: "Supreme mind far above", rating: 500000, efficiency: 100, expected: "Высший разум"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			badge := resolver.ForRating(tt.rating, tt.efficiency)
			if badge.Name != tt.expected {
				t.Errorf("ForRating(%d, %d).Name = %q, want %q",
					tt.rating, tt.efficiency, badge.Name, tt.expected)
			}
		})
	}
}

func TestBadgeResolver_CustomCutoffs(t *testing.T) {
	t.Parallel()

	resolver := rating.NewBadgeResolver(50, 60)

	if got := resolver.ForRating(50000, 49); got.Name != "Оракул" {
		t.Errorf("ForRating(50000, 49).Name = %q, want %q", got.Name, "Оракул")
	}
	if got := resolver.ForRating(50000, 50); got.Name != "Гений" {
		t.Errorf("ForRating(50000, 50).Name = %q, want %q", got.Name, "Гений")
	}
	if got := resolver.ForRating(100000, 59); got.Name != "Искусственный интеллект" {
		t.Errorf("ForRating(100000, 59).Name = %q, want %q", got.Name, "Искусственный интеллект")
	}
	if got := resolver.ForRating(100000, 60); got.Name != "Высший разум" {
		t.Errorf("ForRating(100000, 60).Name = %q, want %q", got.Name, "Высший разум")
	}
}

func TestNextBadge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		rating        int64
		wantName      string
		wantThreshold int64
		wantOK        bool
	}{
		{name: "Fresh user", rating: 0, wantName: "Ученик", wantThreshold: 1, wantOK: true},
		{name: "Just before expert", rating: 249, wantName: "Знаток", wantThreshold: 250, wantOK: true},
		{name: "Before oracle band", rating: 20000, wantName: "Оракул/Гений", wantThreshold: 50000, wantOK: true},
		{name: "Before supreme band", rating: 50000, wantName: "Искусственный интеллект/Высший разум", wantThreshold: 100000, wantOK: true},
		{name: "Top band reached", rating: 100000, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next, ok := rating.NextBadge(tt.rating)
			if ok != tt.wantOK {
				t.Fatalf("NextBadge(%d) ok = %v, want %v", tt.rating, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if next.Name != tt.wantName || next.Threshold != tt.wantThreshold {
				t.Errorf("NextBadge(%d) = (%q, %d), want (%q, %d)",
					tt.rating, next.Name, next.Threshold, tt.wantName, tt.wantThreshold)
			}
		})
	}
}

func TestNextBadgeHint(t *testing.T) {
	t.Parallel()

	if got := rating.NextBadgeHint(240); got != "До лычки ⬆️ Знаток: 10" {
		t.Errorf("NextBadgeHint(240) = %q", got)
	}
	if got := rating.NextBadgeHint(100000); got != "" {
		t.Errorf("NextBadgeHint(100000) = %q, want empty", got)
	}
}
