// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxFormSize caps every request body. The largest form is a broadcast
	// message; the rest are a handful of short fields.
	MaxFormSize = 64 << 10 // 64 KB

	// MaxResultsLength is the longest startup results text, in runes.
	MaxResultsLength = 2000
)
