package booking

import (
	"context"
	"errors"
	"time"

	"domehouse/internal/domain/calendar"
)

var (
	ErrNotFound        = errors.New("booking: not found")
	ErrInvalidDates    = errors.New("booking: check-out before check-in")
	ErrSessionRequired = errors.New("booking: payment session id required")
	ErrInvalidPrice    = errors.New("booking: price must be positive")
)

// Booking is the persisted reservation. It is created pending at checkout
// start (Paid false, SessionID set) and flipped to paid by the payment
// confirmation; normal flow never deletes one. Price is in minor currency
// units.
type Booking struct {
	ID        string
	From      calendar.Date
	To        calendar.Date
	Price     int64
	SessionID string
	Paid      bool
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPending builds the row written when a checkout session opens.
func NewPending(id string, from, to calendar.Date, price int64, sessionID string, now time.Time) (*Booking, error) {
	if to.Before(from) {
		return nil, ErrInvalidDates
	}
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	now = now.UTC()
	return &Booking{
		ID:        id,
		From:      from,
		To:        to,
		Price:     price,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkPaid applies the confirmation transition: paid, session cleared,
// payer email recorded.
func (b *Booking) MarkPaid(email string, now time.Time) {
	b.Paid = true
	b.SessionID = ""
	b.Email = email
	b.UpdatedAt = now.UTC()
}

// Nights is the count of nights the stay covers.
func (b *Booking) Nights() int {
	return calendar.Nights(b.From, b.To)
}

// Days expands the booking into every calendar day it occupies, both
// endpoints included; booked-date queries treat all of them as taken.
func (b *Booking) Days() []calendar.Date {
	var days []calendar.Date
	for cur := b.From; !cur.After(b.To); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// Repository is the keyed store the core depends on; only equality filters
// are assumed, never SQL semantics.
type Repository interface {
	// All returns every stored booking.
	All(ctx context.Context) ([]*Booking, error)
	// BySession finds the booking holding the given payment session id,
	// or ErrNotFound.
	BySession(ctx context.Context, sessionID string) (*Booking, error)
	// Create persists a new booking row.
	Create(ctx context.Context, b *Booking) error
	// ConfirmPayment marks every booking with the session id as paid,
	// clearing the session and recording the payer email. It returns the
	// number of rows updated; zero is not an error.
	ConfirmPayment(ctx context.Context, sessionID, email string) (int64, error)
}

// BookedDates flattens bookings into the booked-day sequence the calendar
// rules consume.
func BookedDates(bookings []*Booking) []calendar.Date {
	var dates []calendar.Date
	for _, b := range bookings {
		dates = append(dates, b.Days()...)
	}
	return dates
}
