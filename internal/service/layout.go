package service

import "strings"

// latinToCyrillic is the QWERTY to ЙЦУКЕН key map. Every target is distinct,
// so the map inverts cleanly.
var latinToCyrillic = map[rune]rune{
	'q': 'й', 'w': 'ц', 'e': 'у', 'r': 'к', 't': 'е', 'y': 'н', 'u': 'г', 'i': 'ш',
	'o': 'щ', 'p': 'з', '[': 'х', ']': 'ъ', 'a': 'ф', 's': 'ы', 'd': 'в', 'f': 'а',
	'g': 'п', 'h': 'р', 'j': 'о', 'k': 'л', 'l': 'д', ';': 'ж', '\'': 'э', 'z': 'я',
	'x': 'ч', 'c': 'с', 'v': 'м', 'b': 'и', 'n': 'т', 'm': 'ь', ',': 'б', '.': 'ю',
	'`': 'ё',
}

var cyrillicToLatin = invertLayout(latinToCyrillic)

func invertLayout(m map[rune]rune) map[rune]rune {
	inverted := make(map[rune]rune, len(m))
	for k, v := range m {
		inverted[v] = k
	}
	return inverted
}

func translate(s string, table map[rune]rune) string {
	return strings.Map(func(r rune) rune {
		if mapped, ok := table[r]; ok {
			return mapped
		}
		return r
	}, s)
}

// CorrectLayout retypes text typed on a Latin layout as if the Cyrillic
// layout had been active. Unmapped characters pass through.
func CorrectLayout(s string) string {
	return translate(s, latinToCyrillic)
}

// RevertLayout is the inverse of CorrectLayout.
func RevertLayout(s string) string {
	return translate(s, cyrillicToLatin)
}

// shouldCorrectLayout decides whether an empty Russian result set gets a
// second pass with the query retyped on the Cyrillic layout.
func shouldCorrectLayout(query, language string, total int) bool {
	return total == 0 && language == "ru" && latinLookingRX.MatchString(query)
}
