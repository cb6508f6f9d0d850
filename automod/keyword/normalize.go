package keyword

import (
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Latin characters (and a couple of digits) which render close enough to
// Cyrillic letters that spammers swap them in to dodge literal matching.
// Folding goes Latin->Cyrillic because the rule lists are Russian.
var confusables = map[rune]rune{
	'a': 'а',
	'c': 'с',
	'e': 'е',
	'o': 'о',
	'p': 'р',
	'y': 'у',
	'x': 'х',
	'3': 'з',
	'0': 'о',
}

var invisibleRunes = runes.Remove(runes.Predicate(isInvisible))

// variation selectors are category Mn, zero-width joiners and BOM are Cf
func isInvisible(r rune) bool {
	return unicode.Is(unicode.Variation_Selector, r) || unicode.Is(unicode.Cf, r)
}

// Removes variation selectors, zero-width joiners, and other format code
// points which are not rendered but break literal string comparison.
func StripInvisible(text string) string {
	out, _, err := transform.String(invisibleRunes, text)
	if err != nil {
		slog.Warn("invisible-rune strip error", "err", err)
		return text
	}
	return out
}

// Normalize lower-cases text, strips invisible code points, and folds
// confusable characters to their Cyrillic counterparts. Deterministic, total,
// and idempotent. Every string on either side of a rule comparison must go
// through this same function; normalizing only one side is the classic bug.
func Normalize(text string) string {
	lowered := strings.ToLower(StripInvisible(text))
	return strings.Map(func(r rune) rune {
		if folded, ok := confusables[r]; ok {
			return folded
		}
		return r
	}, lowered)
}
