// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// QueryParam trims a query string value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Enum maps s onto the matching member of allowed, ignoring case and
// surrounding space. Values outside allowed are returned trimmed so the
// caller's validation can reject them.
func Enum(s string, allowed []string) string {
	s = strings.TrimSpace(s)
	for _, v := range allowed {
		if strings.EqualFold(s, v) {
			return v
		}
	}
	return s
}
