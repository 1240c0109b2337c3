// Package slug generates URL-safe slugs and short codes for document types.
// Names are French, so accent folding matters ("Attestation de présence"
// must slug to "attestation-de-presence").
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make turns a display name into a slug: accents folded, lowercased, any run
// of non-alphanumeric characters collapsed to a single hyphen.
func Make(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// CodePrefix derives the uppercase initials of a name for code generation,
// capped at four letters. "Attestation de présence" yields "ADP".
func CodePrefix(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, word := range strings.Fields(folded) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
			}
			break
		}
		if b.Len() >= 4 {
			break
		}
	}
	if b.Len() == 0 {
		return "DOC"
	}
	return b.String()
}
