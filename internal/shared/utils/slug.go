package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)

	// NFD tách base character khỏi combining marks, rồi strip marks
	diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// GenerateSlug tạo URL slug từ product name.
// "Dürr-e-Najaf Pendant" -> "durr-e-najaf-pendant"
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)

	s := strings.ToLower(ascii)
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugHyphenRuns.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// RemoveDiacritics fold accented characters về ASCII base form
func RemoveDiacritics(input string) string {
	folded, _, err := transform.String(diacriticFolder, input)
	if err != nil {
		return input
	}

	// đ/Đ không phải combining mark, map riêng
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
}
