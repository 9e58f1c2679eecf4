package memory

import (
	"context"
	"sync"
	"time"

	domainbooking "domehouse/internal/domain/booking"
)

// BookingRepository keeps bookings in memory; the development and test
// stand-in for the mongo store.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[string]*domainbooking.Booking
	order []string
}

// NewBookingRepository builds an empty repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[string]*domainbooking.Booking)}
}

// All returns every booking in insertion order.
func (r *BookingRepository) All(ctx context.Context) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bookings := make([]*domainbooking.Booking, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.items[id]
		bookings = append(bookings, &copied)
	}
	return bookings, nil
}

// BySession finds the booking holding the session id, or ErrNotFound.
func (r *BookingRepository) BySession(ctx context.Context, sessionID string) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sessionID == "" {
		return nil, domainbooking.ErrNotFound
	}
	for _, b := range r.items {
		if b.SessionID == sessionID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, domainbooking.ErrNotFound
}

// Create stores a new booking row.
func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.items[b.ID] = &copied
	r.order = append(r.order, b.ID)
	return nil
}

// ConfirmPayment marks every matching row paid and reports how many it hit.
func (r *BookingRepository) ConfirmPayment(ctx context.Context, sessionID, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sessionID == "" {
		return 0, nil
	}
	var matched int64
	for _, b := range r.items {
		if b.SessionID == sessionID {
			b.MarkPaid(email, time.Now())
			matched++
		}
	}
	return matched, nil
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
