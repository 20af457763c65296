package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder replaces characters outside the supported set.
const Placeholder = '?'

// Supported reports whether r can be drawn as wireframe text: printable
// ASCII and newline.
func Supported(r rune) bool {
	return r == '\n' || (r >= 0x20 && r <= 0x7E)
}

// newFolder builds the sanitizing transformer. Transformers carry state,
// so one is built per call.
func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == '\r' })),
		runes.Map(func(r rune) rune {
			switch {
			case r == '\t':
				return ' '
			case Supported(r):
				return r
			}
			return Placeholder
		}),
	)
}

// Sanitize restricts s to the supported character set. Accented letters
// are folded to their base letter, tabs become spaces and carriage returns
// are dropped. It reports whether any character had to be replaced by
// Placeholder.
func Sanitize(s string) (string, bool) {
	if isSupported(s) {
		return s, false
	}
	out, _, err := transform.String(newFolder(), s)
	if err != nil {
		out = strings.Map(func(r rune) rune {
			if Supported(r) {
				return r
			}
			return Placeholder
		}, s)
	}
	// Folding never produces Placeholder, so any new ones are substitutions.
	replaced := strings.Count(out, string(Placeholder)) > strings.Count(s, string(Placeholder))
	return out, replaced
}

func isSupported(s string) bool {
	for _, r := range s {
		if !Supported(r) {
			return false
		}
	}
	return true
}
