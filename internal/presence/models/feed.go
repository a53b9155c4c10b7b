package models

// Item is one facilitator entry in the display feed.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Photo is a URL; empty when the person has none.
	Photo string `json:"photo"`
	// Schedule is a human label like "9:00 AM - 5:00 PM", empty when no
	// shift matched today.
	Schedule string `json:"schedule"`
	// ScheduleStart is the matched shift start as epoch seconds, used by
	// the client for ordering only. People without a matched shift carry
	// a large sentinel so they sort last.
	ScheduleStart int64  `json:"schedule_start"`
	Focus         string `json:"focus"`
	Present       bool   `json:"present"`
	// Door is set only while present.
	Door *string `json:"door"`
	// LastSeen is epoch seconds of the latest scan, emitted only when
	// that scan falls on the current local calendar day.
	LastSeen *int64 `json:"last_seen"`
	// LastSeenAgo is the human label for LastSeen ("just now", "5m ago").
	// Empty when there is nothing to show.
	LastSeenAgo string `json:"last_seen_ago,omitempty"`
}

// Feed is the wire document the display page polls.
type Feed struct {
	Items []Item `json:"items"`
	// Now is the server clock at response time. The client renders its
	// "time ago" labels relative to this, so client and server clocks
	// need not agree.
	Now int64 `json:"now"`
}
