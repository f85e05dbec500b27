package events

import (
	"context"
	"time"

	"rezerv/pkg/kafka"
	"rezerv/pkg/logger"
	"rezerv/pkg/model"
)

const (
	EventBookingCreated  = "booking.created"
	EventBookingCanceled = "booking.canceled"

	sourceService = "rezerv"
)

// BookingEvent is the payload published for booking lifecycle changes.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	ResourceID   string    `json:"resource_id"`
	CustomerName string    `json:"customer_name"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Failures are reported to the
// caller but bookings are never rolled back over a publish error.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingCanceled(ctx context.Context, booking *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, log: log}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCreated, booking)
}

func (p *kafkaPublisher) BookingCanceled(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCanceled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		BookingID:    booking.ID,
		ResourceID:   booking.ResourceID,
		CustomerName: booking.CustomerName,
		StartAt:      booking.StartAt,
		EndAt:        booking.EndAt,
		Status:       string(booking.Status),
		OccurredAt:   time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ResourceID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(sourceService).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err)
		return err
	}

	p.log.Debug("published booking event",
		"event_type", eventType,
		"booking_id", booking.ID,
		"resource_id", booking.ResourceID)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher is used when no brokers are configured.
type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) BookingCreated(context.Context, *model.Booking) error  { return nil }
func (noopPublisher) BookingCanceled(context.Context, *model.Booking) error { return nil }
func (noopPublisher) Close() error                                          { return nil }
