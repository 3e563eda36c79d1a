package util

import (
	"strings"
	"unicode"
)

const maxSlugLength = 50

// GenerateSlug lowercases title, replaces every run of characters outside
// [a-z0-9] and CJK ideographs with "-", trims dashes and caps the result at 50 runes
// GenerateSlug 生成文章别名：小写化，非 [a-z0-9] 与中文字符替换为 "-"，截断到 50 个字符
func GenerateSlug(title string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if isSlugRune(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			sb.WriteByte('-')
			dash = true
		}
	}

	slug := strings.Trim(sb.String(), "-")
	runes := []rune(slug)
	if len(runes) > maxSlugLength {
		slug = string(runes[:maxSlugLength])
	}
	return slug
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.Is(unicode.Han, r)
}
