package export

import "strings"

const (
	// Delimiter separates fields on a line.
	Delimiter = ","

	// Substitute replaces the delimiter inside text fields. The substitution
	// is lossy: "a,b" and "a_b" export identically.
	Substitute = "_"
)

// Sanitize makes text safe to place in a single field by replacing every
// delimiter with the substitute. It is idempotent.
func Sanitize(text string) string {
	return strings.ReplaceAll(text, Delimiter, Substitute)
}
