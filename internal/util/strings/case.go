// Package strings converts identifiers between the naming styles collection
// declarations use.
package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase or spaced names to snake_case.
// Acronyms stay together (HTTPRequest -> http_request).
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(strings.TrimSpace(s))

	for i, r := range runes {
		switch {
		case r == ' ' || r == '-':
			if result.Len() > 0 && !strings.HasSuffix(result.String(), "_") {
				result.WriteRune('_')
			}
		case unicode.IsUpper(r):
			if i > 0 && !strings.HasSuffix(result.String(), "_") {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Humanize turns a snake_case name into a title (blog_posts -> Blog Posts)
func Humanize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' })
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
