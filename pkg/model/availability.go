package model

import "time"

// Slot is a fixed-length candidate window within a working day.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Availability echoes the queried resource and date back together with the
// free slots, in chronological order.
type Availability struct {
	ResourceID string `json:"resource_id"`
	Date       string `json:"date"`
	Slots      []Slot `json:"available_slots"`
}
