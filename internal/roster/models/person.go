// Package models holds the facilitator directory types. The directory and
// shift schedule are written by an upstream sync; this service only reads
// them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleFacilitator selects the people the display cares about.
const RoleFacilitator = "facilitator"

// Person is a facilitator as the directory knows them.
type Person struct {
	ID    uuid.UUID
	Name  string
	Photo string // URL, may be empty
	Focus string // free-text focus label shown on the display
}

// Shift is one planned on-site window. End is inclusive.
type Shift struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the shift touches the closed window [start, end].
func (s Shift) Overlaps(start, end time.Time) bool {
	return !s.Start.After(end) && !s.End.Before(start)
}

// Scheduled pairs a person with their shifts in stored order. The stored
// order matters: the matcher picks the first shift overlapping today.
type Scheduled struct {
	Person Person
	Shifts []Shift
}
