package store

import "time"

// FormatTime and ParseTime fix the locale-independent timestamp format
// history lines use, ground on the teacher's fileutil.FormatTime /
// fileutil.ParseTime (RFC3339, with "-" standing in for the zero time).
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func ParseTime(s string) (time.Time, error) {
	if s == "-" || s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
