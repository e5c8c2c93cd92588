package analysis

import (
	"strings"
	"time"
)

// Month-first layouts come before ISO ones; the source data is US formatted.
var dateLayouts = []string{
	"01/02/2006", "1/2/2006", "2006-01-02", time.RFC3339, "2006-01-02T15:04:05",
	"2006/01/02", "2006-01-02 15:04", "2006-01-02 15:04:05",
	"1/2/2006 15:04", "1/2/2006 15:04:05", "01/02/2006 15:04:05", "Jan 2, 2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
