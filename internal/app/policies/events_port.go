package policies

import (
	"context"
	"time"
)

const (
	EventBookingRequested = "booking.requested"
	EventBookingPaid      = "booking.paid"
)

// BookingEvent is the lifecycle notification published to the broker.
// Dates are ISO calendar days.
type BookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	AmountMinor int64     `json:"amount_minor"`
	At          time.Time `json:"at"`
}

type EventsPort interface {
	PublishBookingEvent(ctx context.Context, ev BookingEvent) error
}

// NoopEvents satisfies EventsPort when no broker is configured.
type NoopEvents struct{}

func (NoopEvents) PublishBookingEvent(ctx context.Context, ev BookingEvent) error { return nil }
