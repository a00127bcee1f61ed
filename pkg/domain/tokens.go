package domain

import "regexp"

// tokenPattern matches {{token}} placeholders in call paths and payloads.
var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Tokens returns the template token names found in s, in order of
// appearance, without duplicates.
func Tokens(s string) []string {
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}

// ReplaceTokens substitutes every {{token}} in s using the supplied resolver.
// The resolver returns the replacement text and whether the token resolved.
// Unresolved tokens are left untouched and reported.
func ReplaceTokens(s string, resolve func(token string) (string, bool)) (string, []string) {
	var unresolved []string
	out := tokenPattern.ReplaceAllStringFunc(s, func(m string) string {
		token := tokenPattern.FindStringSubmatch(m)[1]
		if v, ok := resolve(token); ok {
			return v
		}
		unresolved = append(unresolved, token)
		return m
	})
	return out, unresolved
}
