package transform

import (
	"strings"
	"unicode/utf8"
)

// asciiFold maps French and other Latin-1 accented letters to ASCII.
var asciiFold = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A", 'Å': "A",
	'æ': "ae", 'Æ': "AE",
	'ç': "c", 'Ç': "C",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'ñ': "n", 'Ñ': "N",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O", 'Ø': "O",
	'œ': "oe", 'Œ': "OE",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U",
	'ý': "y", 'ÿ': "y", 'Ý': "Y", 'Ÿ': "Y",
	'ß': "ss",
}

// Transliterate replaces accented letters from the fold table with their
// ASCII equivalents and deletes every other non-ASCII character.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		default:
			if repl, ok := asciiFold[r]; ok {
				b.WriteString(repl)
			}
		}
	}
	return b.String()
}

// TransliterateToASCII is Transliterate for optional values: nil stays nil.
func TransliterateToASCII(s *string) *string {
	if s == nil {
		return nil
	}
	out := Transliterate(*s)
	return &out
}
