package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"domehouse/internal/app/policies"
	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
	"domehouse/internal/domain/pricing"
)

var (
	ErrDatesUnavailable = errors.New("checkout: requested dates are not available")
	ErrPaymentsDown     = errors.New("checkout: payment processor unavailable")
)

type StartSessionCommand struct {
	From string
	To   string
}

type StartSessionResult struct {
	Status    string `json:"status"`
	SessionID string `json:"sessionId"`
	PublicKey string `json:"publicKey"`
}

// StartSessionHandler opens a hosted payment session for a stay and records
// the pending booking. The booking row is written only after the processor
// call succeeds, so a processor failure leaves nothing behind.
type StartSessionHandler struct {
	Bookings  domainbooking.Repository
	Rules     calendar.Rules
	Rates     pricing.Ratebook
	Payments  policies.PaymentsPort
	Events    policies.EventsPort
	Locks     *domainbooking.RangeLock
	PublicKey string
	BaseURL   string
	Currency  string
	Logger    *slog.Logger
}

func (h *StartSessionHandler) Handle(ctx context.Context, cmd StartSessionCommand) (*StartSessionResult, error) {
	from, err := calendar.ParseDate(cmd.From)
	if err != nil {
		return nil, err
	}
	to, err := calendar.ParseDate(cmd.To)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, domainbooking.ErrInvalidDates
	}

	// Hold the range across the availability read and the booking write so
	// two concurrent checkouts cannot both claim overlapping dates.
	if h.Locks != nil {
		release, ok := h.Locks.Acquire(from, to)
		if !ok {
			return nil, fmt.Errorf("%w: another checkout holds %s to %s", ErrDatesUnavailable, from, to)
		}
		defer release()
	}

	existing, err := h.Bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout: load bookings: %w", err)
	}
	if err := h.Rules.ValidateRange(calendar.NewRange(from, to), domainbooking.BookedDates(existing)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatesUnavailable, err)
	}

	total, err := h.Rates.StayCost(from, to)
	if err != nil {
		return nil, err
	}
	amount := total * 100

	session, err := h.Payments.CreateCheckoutSession(ctx, policies.CheckoutInput{
		Description: fmt.Sprintf("Dome house stay, %s to %s", from, to),
		AmountMinor: amount,
		Currency:    h.currency(),
		SuccessURL:  h.BaseURL + "/success",
		CancelURL:   h.BaseURL + "/calendar",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentsDown, err)
	}

	now := time.Now().UTC()
	pending, err := domainbooking.NewPending(uuid.NewString(), from, to, amount, session.ID, now)
	if err != nil {
		return nil, err
	}
	if err := h.Bookings.Create(ctx, pending); err != nil {
		return nil, fmt.Errorf("checkout: persist booking: %w", err)
	}

	h.publish(ctx, policies.BookingEvent{
		Type:        policies.EventBookingRequested,
		BookingID:   pending.ID,
		From:        from.String(),
		To:          to.String(),
		AmountMinor: amount,
		At:          now,
	})

	return &StartSessionResult{
		Status:    "success",
		SessionID: session.ID,
		PublicKey: h.PublicKey,
	}, nil
}

func (h *StartSessionHandler) currency() string {
	if h.Currency != "" {
		return h.Currency
	}
	return "usd"
}

// publish is best effort; a broker outage must not fail a checkout.
func (h *StartSessionHandler) publish(ctx context.Context, ev policies.BookingEvent) {
	if h.Events == nil {
		return
	}
	if err := h.Events.PublishBookingEvent(ctx, ev); err != nil && h.Logger != nil {
		h.Logger.Warn("booking event publish failed", "type", ev.Type, "booking_id", ev.BookingID, "error", err)
	}
}
