package keyword

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^\pL\pN]+`)

// Takes an arbitrary string (a display name or free-form message text) and
// returns a version with all non-letter, non-digit characters removed, and
// all lower-case. Used for the banned-word substring check, where spacing and
// punctuation tricks ("с п а м") would otherwise defeat matching.
func Slugify(orig string) string {
	return strings.ToLower(nonSlugChars.ReplaceAllString(orig, ""))
}
