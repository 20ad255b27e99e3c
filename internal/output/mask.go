package output

import "strings"

// Mask hides all but the tail of a secret so a profile can be shown
// without exposing the full access key.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", 8)
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
