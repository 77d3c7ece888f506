// internal/app/system/csvutil/limits.go
package csvutil

// Upload size and row limits for CSV processing.
const (
	MaxUploadSize = 20 << 20 // 20 MB
	MaxRows       = 100000
)
