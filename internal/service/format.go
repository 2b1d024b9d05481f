package service

import "fmt"

// FormatSize renders a byte count the way the admin dashboard shows it.
func FormatSize(bytes int64) string {
	const unit = 1024
	switch {
	case bytes < unit:
		return fmt.Sprintf("%d B", bytes)
	case bytes < unit*unit:
		return fmt.Sprintf("%.2f KB", float64(bytes)/unit)
	case bytes < unit*unit*unit:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(unit*unit))
	default:
		return fmt.Sprintf("%.2f GB", float64(bytes)/(unit*unit*unit))
	}
}
