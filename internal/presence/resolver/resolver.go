// Package resolver holds the presence computation: pure functions from
// (now, shifts, latest scan, settings) to a per-person display status.
// Nothing here touches a store or the real clock, so every rule is
// directly testable with fixed times.
package resolver

import (
	"time"

	presencemodels "onsite/internal/presence/models"
	rostermodels "onsite/internal/roster/models"
)

const (
	// ShiftBuffer is how early before a shift a badge-in still counts as
	// arriving for that shift.
	ShiftBuffer = 2 * time.Hour
	// GracePeriod keeps an off-site person on the display for a short
	// while after their shift ends.
	GracePeriod = 30 * time.Minute
	// DefaultTimeout is the scan-decay window when settings carry none.
	DefaultTimeout = 4 * time.Hour

	// UnscheduledSortKey sorts people without a matched shift after
	// everyone with one.
	UnscheduledSortKey int64 = 9999999999
)

// MatchShift selects the relevant shift for today: the first one in
// stored order overlapping the closed window. Later overlapping shifts
// are ignored.
func MatchShift(shifts []rostermodels.Shift, windowStart, windowEnd time.Time) (rostermodels.Shift, bool) {
	for _, s := range shifts {
		if s.Overlaps(windowStart, windowEnd) {
			return s, true
		}
	}
	return rostermodels.Shift{}, false
}

// Input is everything the presence decision depends on.
type Input struct {
	Now     time.Time
	Shift   *rostermodels.Shift // matched shift for today, nil when none
	Record  *presencemodels.Record
	Timeout time.Duration // scan-decay window; DefaultTimeout when zero
	Loc     *time.Location
}

// Status is the derived presence state. Never persisted; recomputed per
// request.
type Status struct {
	Present bool
	// Door is non-empty only while present.
	Door string
	// LastSeen is set only when the latest scan falls on the current
	// local calendar day; older scans carry no useful "last seen" signal
	// for the display.
	LastSeen *time.Time
}

// Resolve applies the presence rules:
//
//  1. Standard: the latest scan is younger than the timeout (strict).
//  2. Shift persistence: once badged in within ShiftBuffer of the shift
//     start, the person stays present until the shift ends, even after
//     the standard timeout lapses.
//
// The two are OR-combined.
func Resolve(in Input) Status {
	timeout := in.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var st Status
	if in.Record == nil {
		return st
	}

	standard := in.Now.Sub(in.Record.LastSeen) < timeout

	shiftPersistence := false
	if in.Shift != nil {
		bufferStart := in.Shift.Start.Add(-ShiftBuffer)
		if !in.Record.LastSeen.Before(bufferStart) && !in.Now.After(in.Shift.End) {
			shiftPersistence = true
		}
	}

	st.Present = standard || shiftPersistence
	if st.Present {
		st.Door = in.Record.Door
	}
	if SameLocalDay(in.Now, in.Record.LastSeen, in.Loc) {
		seen := in.Record.LastSeen
		st.LastSeen = &seen
	}
	return st
}

// Include is the relevance filter: a person drops out of the feed only
// when they are off-site and their matched shift ended more than
// GracePeriod ago. Everyone else stays.
func Include(in Input, st Status) bool {
	if st.Present {
		return true
	}
	if in.Shift != nil && in.Now.After(in.Shift.End.Add(GracePeriod)) {
		return false
	}
	return true
}

// SortKey orders feed items by matched shift start; no shift sorts last.
func SortKey(shift *rostermodels.Shift) int64 {
	if shift == nil {
		return UnscheduledSortKey
	}
	return shift.Start.Unix()
}

// Label formats a matched shift as "9:00 AM - 5:00 PM" in the site
// timezone.
func Label(shift rostermodels.Shift, loc *time.Location) string {
	return shift.Start.In(loc).Format("3:04 PM") + " - " + shift.End.In(loc).Format("3:04 PM")
}
