// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxRecordBody is the largest JSON body accepted by a list page
	// (create, update and status payloads).
	MaxRecordBody = 1 << 20 // 1 MB

	// MaxLoginBody is the largest sign-in body, JSON or form encoded.
	MaxLoginBody = 1 << 16 // 64 KB
)
