package resolver

import (
	"fmt"
	"time"
)

// TimeAgo buckets a scan age for display: "just now" under a minute,
// minutes under an hour, hours under a day. Scans a day or more old, or
// from a different local calendar day, return "" (no label). The feed
// emits this label per item; the display script keeps a fallback copy of
// the same bucketing for feeds cached before a label existed.
func TimeAgo(now, lastSeen time.Time, loc *time.Location) string {
	if !SameLocalDay(now, lastSeen, loc) {
		return ""
	}
	age := now.Sub(lastSeen)
	switch {
	case age < 0:
		return ""
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return ""
	}
}
