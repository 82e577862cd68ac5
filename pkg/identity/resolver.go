// Package identity assigns stable speaker identifiers. Sources that supply
// a natural id keep it verbatim; for the rest an identifier is derived
// deterministically from the speaker's name and party so that independent
// runs over the same input always agree.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	generatedPrefix = "gen_"
	unknownParty    = "okantparti"
	maxIDLength     = 60
)

// stripMarks removes diacritics: decompose, drop combining marks, recompose.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Resolve maps (naturalID, name, party) to the stable speaker id. A
// non-empty naturalID wins; otherwise the id is synthesized from normalized
// name and party. Identical normalized inputs collide by design — the
// resolver does not disambiguate homonyms.
func Resolve(naturalID, name, party string) string {
	if id := strings.TrimSpace(naturalID); id != "" {
		return id
	}
	p := Slug(party)
	if p == "" {
		p = unknownParty
	}
	id := generatedPrefix + Slug(name) + "_" + p
	if r := []rune(id); len(r) > maxIDLength {
		id = string(r[:maxIDLength])
	}
	return id
}

// Slug normalizes a name for use in identifiers and file names:
// transliterated to ASCII-ish by dropping diacritics, lower-cased, with
// runs of non-alphanumerics collapsed to a single underscore.
// "Éric Coquerel" becomes "eric_coquerel".
func Slug(s string) string {
	if t, _, err := transform.String(stripMarks, s); err == nil {
		s = t
	}
	s = strings.ToLower(s)

	var sb strings.Builder
	pendingSep := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			sb.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return sb.String()
}
