// Package rating implements the reputation core: badge resolution, praise
// detection, and the rating service façade over the persistence layer.
package rating

import "fmt"

// Badge is an immutable rank label derived from a user's rating. The two top
// threshold bands carry two names each, disambiguated by efficiency percent.
type Badge struct {
	Threshold int64
	Name      string
	Icon      string
}

// Label returns the display form, icon first.
func (b Badge) Label() string {
	return b.Icon + " " + b.Name
}

// Rank ladder based on the public table from "Ответы Mail.ru".
var ladder = []Badge{
	{0, "Новичок", "🌱"},
	{1, "Ученик", "📗"},
	{250, "Знаток", "📚"},
	{500, "Профи", "🎯"},
	{1000, "Мастер", "🛠"},
	{2500, "Гуру", "🧠"},
	{5000, "Мыслитель", "🤔"},
	{10000, "Мудрец", "🦉"},
	{20000, "Просветленный", "✨"},
}

const (
	oracleThreshold  = 50_000
	supremeThreshold = 100_000
)

// Default efficiency cutoffs for the dual-name bands. The two values differ
// in the source rank table; whether that is intentional is an open product
// question, so they stay independently configurable.
const (
	DefaultGeniusEfficiencyCutoff  = 25
	DefaultSupremeEfficiencyCutoff = 30
)

// BadgeResolver maps (rating, efficiency percent) to a badge. The zero value
// is not usable; construct with NewBadgeResolver.
type BadgeResolver struct {
	geniusCutoff  int
	supremeCutoff int
}

// NewBadgeResolver creates a resolver with the given efficiency cutoffs for
// the 50k and 100k bands. Non-positive cutoffs fall back to the defaults.
func NewBadgeResolver(geniusCutoff, supremeCutoff int) BadgeResolver {
	if geniusCutoff <= 0 {
		geniusCutoff = DefaultGeniusEfficiencyCutoff
	}
	if supremeCutoff <= 0 {
		supremeCutoff = DefaultSupremeEfficiencyCutoff
	}
	return BadgeResolver{geniusCutoff: geniusCutoff, supremeCutoff: supremeCutoff}
}

// ForRating returns the badge for a rating. Efficiency percent matters only
// inside the two top bands:
//   - 50_000..99_999: Гений if efficiency >= genius cutoff, else Оракул
//   - 100_000+: Высший разум if efficiency >= supreme cutoff, else
//     Искусственный интеллект
func (r BadgeResolver) ForRating(rating int64, efficiencyPercent int) Badge {
	if rating >= supremeThreshold {
		if efficiencyPercent >= r.supremeCutoff {
			return Badge{supremeThreshold, "Высший разум", "🌌"}
		}
		return Badge{supremeThreshold, "Искусственный интеллект", "🤖"}
	}

	if rating >= oracleThreshold {
		if efficiencyPercent >= r.geniusCutoff {
			return Badge{oracleThreshold, "Гений", "🧬"}
		}
		return Badge{oracleThreshold, "Оракул", "🔮"}
	}

	current := ladder[0]
	for _, b := range ladder {
		if rating < b.Threshold {
			break
		}
		current = b
	}
	return current
}

// NextBadge returns the badge at the smallest threshold strictly greater
// than rating, or ok=false once the top band is reached. Dual-name bands are
// reported with both names; the hint is informational only.
func NextBadge(rating int64) (Badge, bool) {
	for _, b := range ladder {
		if rating < b.Threshold {
			return Badge{b.Threshold, b.Name, "⬆️"}, true
		}
	}
	if rating < oracleThreshold {
		return Badge{oracleThreshold, "Оракул/Гений", "⬆️"}, true
	}
	if rating < supremeThreshold {
		return Badge{supremeThreshold, "Искусственный интеллект/Высший разум", "⬆️"}, true
	}
	return Badge{}, false
}

// NextBadgeHint formats the distance to the next rank, or returns "" at the
// top band.
func NextBadgeHint(rating int64) string {
	next, ok := NextBadge(rating)
	if !ok {
		return ""
	}
	return fmt.Sprintf("До лычки %s %s: %d", next.Icon, next.Name, next.Threshold-rating)
}
