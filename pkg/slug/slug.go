package slug

import (
	"regexp"
	"strings"
)

// cyrillicToLatin maps Cyrillic characters to Latin transliteration
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch",
	'ш': "sh", 'щ': "sh", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "iu", 'я': "ia",
}

// latinFold covers the accented Latin letters that show up in titles
var latinFold = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ä': "a", 'å': "a", 'ã': "a",
	'ç': "c", 'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ñ': "n",
	'ò': "o", 'ó': "o", 'ô': "o", 'ö': "o", 'õ': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ý': "y", 'ÿ': "y",
	'ß': "ss", 'æ': "ae", 'œ': "oe",
}

var (
	nonSlugRegex   = regexp.MustCompile(`[^a-z0-9]+`)
	validSlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make turns free text into a URL-friendly slug.
// Example: "Heat Pump Installation!" -> "heat-pump-installation", "Тепловой насос" -> "teplovoy-nasos"
// Returns "" when nothing slug-worthy remains.
func Make(text string) string {
	var result strings.Builder
	for _, char := range strings.ToLower(text) {
		if latin, ok := cyrillicToLatin[char]; ok {
			result.WriteString(latin)
			continue
		}
		if folded, ok := latinFold[char]; ok {
			result.WriteString(folded)
			continue
		}
		result.WriteRune(char)
	}

	s := nonSlugRegex.ReplaceAllString(result.String(), "-")
	return strings.Trim(s, "-")
}

// IsValid reports whether s is already a well-formed slug
func IsValid(s string) bool {
	return validSlugRegex.MatchString(s)
}
