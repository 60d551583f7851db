package rating

import (
	"regexp"
	"strings"
	"unicode"
)

// Reply-to-message praise triggers that award +1 reputation through the same
// path and cooldown as /plus. Matching is allow-list based and only accepts
// short messages of 1-4 tokens, optionally with intensifiers ("очень норм").

var praiseIntensifiers = map[string]struct{}{
	"очень":  {},
	"прям":   {},
	"реально": {},
	"вообще": {},
	"просто": {},
	"сильно": {},
	"крайне": {},
	"ну":     {},
}

var praiseTokens = map[string]struct{}{
	"норм": {}, "нормс": {}, "нормас": {}, "нормуль": {}, "нормально": {},
	"клас": {}, "класс": {}, "классно": {}, "классный": {},
	"балдеж": {}, "балдежка": {}, "балдежно": {},
	"заебок": {}, "мощно": {}, "мощь": {}, "мощна": {},
	"охуенчик": {}, "охуевше": {}, "охуенно": {}, "красота": {},
	"круто": {}, "крутяк": {}, "крутотень": {}, "крутота": {},
	"топ": {}, "топчик": {}, "имба": {}, "огонь": {}, "огнище": {},
	"пушка": {}, "бомба": {}, "бомбезно": {},
	"кайф": {}, "кайфово": {}, "кайфец": {},
	"шик": {}, "шикарно": {}, "великолепно": {},
	"офигенно": {}, "обалденно": {}, "обалдеть": {},
	"прекрасно": {}, "отлично": {}, "отличненько": {},
	"супер": {}, "суперски": {}, "респект": {}, "уважаю": {},
	"годно": {}, "годнота": {}, "зачет": {}, "красиво": {},
	"мега": {}, "идеально": {}, "лучше": {},
	"ахуенно": {}, "ахуеть": {}, "заебись": {}, "заебца": {}, "збс": {},
	"пиздато": {}, "пиздатенько": {}, "пиздец": {}, "ебать": {},
	"четко": {}, "ништяк": {}, "бесподобно": {}, "восхитительно": {},
	"потрясающе": {}, "фантастика": {}, "невероятно": {}, "изумительно": {},
	"божественно": {}, "безупречно": {}, "магия": {}, "эпик": {},
	"лайк": {}, "молодец": {}, "красавчик": {}, "красава": {},
	"найс": {}, "наис": {}, "гуд": {}, "вау": {}, "браво": {},
	"блеск": {}, "шедевр": {}, "сила": {}, "жиза": {},
	"пушечка": {}, "ракета": {}, "бро": {}, "агонь": {},
}

// "+", "++", "+1" etc. as a quick /plus replacement; the reply requirement
// is checked by the caller.
var plusShortcut = regexp.MustCompile(`^\+{1,3}1?$`)

// compressRuns collapses letter runs longer than two: "классссс" becomes
// "класс" while legitimate double letters survive.
func compressRuns(token string) string {
	const maxRun = 2

	var out strings.Builder
	var prev rune
	run := 0
	for _, ch := range token {
		if ch == prev {
			run++
			if run <= maxRun {
				out.WriteRune(ch)
			}
			continue
		}
		prev = ch
		run = 1
		out.WriteRune(ch)
	}
	return out.String()
}

// NormalizePraiseText lowercases the text, folds ё to е, strips punctuation
// and emoji, compresses letter runs, and returns the remaining tokens.
func NormalizePraiseText(text string) []string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "ё", "е")

	var cleaned strings.Builder
	for _, ch := range s {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || unicode.IsSpace(ch) {
			cleaned.WriteRune(ch)
		} else {
			cleaned.WriteRune(' ')
		}
	}

	fields := strings.Fields(cleaned.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := compressRuns(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// IsPraiseReplyText reports whether a reply message should count as praise
// and trigger a +1 vote for the replied-to author.
func IsPraiseReplyText(text string) bool {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return false
	}

	compact := strings.Join(strings.Fields(raw), "")
	if plusShortcut.MatchString(compact) {
		return true
	}

	tokens := NormalizePraiseText(text)
	if len(tokens) == 0 || len(tokens) > 4 {
		return false
	}

	sawPraise := false
	for _, t := range tokens {
		if _, ok := praiseTokens[t]; ok {
			sawPraise = true
			continue
		}
		if _, ok := praiseIntensifiers[t]; !ok {
			return false
		}
	}
	return sawPraise
}
