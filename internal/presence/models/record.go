// Package models holds the presence types: the stored "latest scan"
// record and the wire shapes of the display feed.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is the latest door scan for one person. One row per person; a
// new scan overwrites the previous one, history is not retained.
type Record struct {
	PersonID uuid.UUID
	LastSeen time.Time
	Door     string
}
