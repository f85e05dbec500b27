package model

import (
	"time"
)

// BookingStatus is a closed enum. A booking is created active and can only
// transition to canceled; canceled bookings are retained and never deleted.
type BookingStatus string

const (
	StatusActive   BookingStatus = "active"
	StatusCanceled BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	return s == StatusActive || s == StatusCanceled
}

type Booking struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID   string        `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	CustomerName string        `json:"customer_name" bson:"customer_name" validate:"required,min=1,max=100"`
	StartAt      time.Time     `json:"start_at" bson:"start_at" validate:"required"`
	EndAt        time.Time     `json:"end_at" bson:"end_at" validate:"required,gtfield=StartAt"`
	Status       BookingStatus `json:"status" bson:"status" validate:"omitempty,oneof=active canceled"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's [StartAt, EndAt) interval overlaps
// [start, end). Touching endpoints do not count as overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && start.Before(b.EndAt)
}

// BookingFilter narrows ListBookings results. Zero-valued fields are ignored;
// provided fields combine with AND semantics.
type BookingFilter struct {
	ResourceID string
	DateFrom   *time.Time // start_at >= DateFrom
	DateTo     *time.Time // end_at <= DateTo
	Status     BookingStatus
}
