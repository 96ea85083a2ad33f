package classify

import (
	"fmt"
	"time"
)

// Unknown is returned by the formatters for absent or invalid input.
const Unknown = "Unknown"

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatFileSize renders a byte count as B, KB, MB or GB.
func FormatFileSize(size int64) string {
	switch {
	case size <= 0:
		return Unknown
	case size < kib:
		return fmt.Sprintf("%d B", size)
	case size < mib:
		return fmt.Sprintf("%.2f KB", float64(size)/kib)
	case size < gib:
		return fmt.Sprintf("%.2f MB", float64(size)/mib)
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/gib)
	}
}

// FormatDuration renders seconds as HH:MM:SS, or MM:SS under an hour.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return Unknown
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatTimeAgo renders t relative to now. Older than a week falls back to a date.
func FormatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	seconds := now.Sub(t).Seconds()
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%d min ago", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", int(seconds/3600))
	case seconds < 604800:
		return fmt.Sprintf("%d days ago", int(seconds/86400))
	default:
		return t.Format("02 Jan 2006")
	}
}
