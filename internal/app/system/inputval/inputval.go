// internal/app/system/inputval/inputval.go
package inputval

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
)

// IsValidEmail reports whether s is a bare address (no display name) with a
// well-formed local part and domain.
func IsValidEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	local, domain := s[:at], s[at+1:]
	return validDotted(local) && validDotted(domain)
}

func validDotted(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}

// Checker accumulates the first field error found.
type Checker struct {
	err *collection.FieldError
}

func (c *Checker) fail(field, msg string) {
	if c.err == nil {
		c.err = &collection.FieldError{Field: field, Message: msg}
	}
}

// Required fails when v is blank.
func (c *Checker) Required(field, v string) *Checker {
	if strings.TrimSpace(v) == "" {
		c.fail(field, "is required")
	}
	return c
}

// MaxLen fails when v is longer than n runes.
func (c *Checker) MaxLen(field, v string, n int) *Checker {
	if len([]rune(v)) > n {
		c.fail(field, "is too long")
	}
	return c
}

// Email fails when v is not a valid address.
func (c *Checker) Email(field, v string) *Checker {
	if !IsValidEmail(v) {
		c.fail(field, "must be a valid email address")
	}
	return c
}

// OneOf fails when v is not in allowed.
func (c *Checker) OneOf(field, v string, allowed []string) *Checker {
	if !slices.Contains(allowed, v) {
		c.fail(field, "must be one of "+strings.Join(allowed, ", "))
	}
	return c
}

// NonNegative fails when n is below zero.
func (c *Checker) NonNegative(field string, n int) *Checker {
	if n < 0 {
		c.fail(field, "must not be negative")
	}
	return c
}

// Positive fails when n is below one.
func (c *Checker) Positive(field string, n int) *Checker {
	if n < 1 {
		c.fail(field, "must be at least 1")
	}
	return c
}

// Set fails when t is the zero time.
func (c *Checker) Set(field string, t time.Time) *Checker {
	if t.IsZero() {
		c.fail(field, "is required")
	}
	return c
}

// Err returns the first failure, or nil.
func (c *Checker) Err() error {
	if c.err == nil {
		return nil
	}
	return c.err
}
