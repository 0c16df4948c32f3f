// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/urlutil"
)

// ReturnOptions configures the behavior of SafeReturn.
type ReturnOptions struct {
	// AllowedPrefix is the required path prefix (e.g., "/admin").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSegments are path segments that make a URL unusable as a
	// return target, such as action endpoints that only accept POST.
	ExcludedSegments []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// AdminReturn is used after sign-in: only admin pages, never an action
// endpoint.
var AdminReturn = ReturnOptions{
	AllowedPrefix:    "/admin",
	ExcludedSegments: []string{"confirm", "cancel", "close", "refresh", "heartbeat"},
	Fallback:         "/admin",
}

// SafeReturn validates a return URL taken from a request.
//
// The URL must be local (not an open redirect), must sit under the
// allowed prefix, and must not contain an excluded path segment.
// Anything else yields the fallback.
//
// Example usage:
//
//	dest := navigation.SafeReturn(query.Get(r, "return"), navigation.AdminReturn)
func SafeReturn(raw string, opts ReturnOptions) string {
	ret := urlutil.SafeReturn(strings.TrimSpace(raw), "", "")
	if ret == "" {
		return opts.Fallback
	}

	u, err := url.Parse(ret)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && u.Path != opts.AllowedPrefix && !strings.HasPrefix(u.Path, strings.TrimSuffix(opts.AllowedPrefix, "/")+"/") {
		return opts.Fallback
	}
	for _, seg := range strings.Split(u.Path, "/") {
		for _, excluded := range opts.ExcludedSegments {
			if seg == excluded {
				return opts.Fallback
			}
		}
	}
	return ret
}
