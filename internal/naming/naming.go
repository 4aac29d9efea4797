package naming

import (
	"strings"
	"unicode"

	"github.com/hpungsan/huntbot/internal/errors"
)

// titleStripper removes the characters the chat platform and document store
// queries cannot carry safely in a title used as a lookup key.
var titleStripper = strings.NewReplacer("'", "", `"`, "", "#", "")

// SanitizeTitle strips quote characters and '#' from a raw puzzle title and
// trims whitespace. The result doubles as the display name and the unique
// lookup key (via the text channel topic), so an empty result is a
// validation failure rather than a silent no-op.
func SanitizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(titleStripper.Replace(raw))
	if title == "" {
		return "", errors.NewValidation("puzzle title is empty after removing quotes and #")
	}
	return title, nil
}

// RoundKey normalizes a round name to its matching key: lowercased, with
// everything but letters and digits dropped. Two round names that normalize
// identically are treated as the same round; this tolerates punctuation and
// emoji variation in round titles at the cost of possible collisions.
func RoundKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
