package model

import "time"

// BookingLock is an advisory lock serializing the conflict-check-then-insert
// sequence for a single resource. The _id is derived from the resource id, so
// a duplicate key error means another request holds the critical section.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
