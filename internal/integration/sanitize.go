// internal/integration/sanitize.go
package integration

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	keyPattern        = regexp.MustCompile(`[^a-z0-9_\-]`)
)

// StringSanitizer lifts a string normalizer into a SanitizeFunc.
// Non-string values pass through untouched.
func StringSanitizer(f func(string) string) SanitizeFunc {
	return func(value interface{}) interface{} {
		if s, ok := value.(string); ok {
			return f(s)
		}
		return value
	}
}

// SanitizeText strips HTML tags, collapses whitespace and trims.
func SanitizeText(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeURL normalizes a URL, returning "" when it does not parse or
// carries a scheme other than http(s).
func SanitizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// SanitizeEmail lowercases and validates an address, returning "" when
// the syntax is invalid.
func SanitizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return ""
	}
	return s
}

// SanitizeKey reduces a value to a lowercase identifier.
func SanitizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return keyPattern.ReplaceAllString(s, "")
}

// IsValidEmail reports whether s parses as a bare email address.
func IsValidEmail(s string) bool {
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}
