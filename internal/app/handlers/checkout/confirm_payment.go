package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"domehouse/internal/app/policies"
	domainbooking "domehouse/internal/domain/booking"
)

// ConfirmPaymentHandler consumes signed processor notifications and flips
// the matching pending booking to paid. Confirmation is at-least-once and
// best effort: once the signature checks out the processor is always
// acknowledged, and store problems are logged rather than surfaced, so a
// transient failure cannot trigger an endless redelivery storm.
type ConfirmPaymentHandler struct {
	Bookings domainbooking.Repository
	Verifier policies.WebhookVerifier
	Events   policies.EventsPort
	Logger   *slog.Logger
}

// Handle verifies and applies one notification. The returned error is
// non-nil only for signature failures, which callers must answer with a
// client error and zero mutation.
func (h *ConfirmPaymentHandler) Handle(ctx context.Context, payload []byte, signature string) error {
	event, err := h.Verifier.VerifyEvent(payload, signature)
	if err != nil {
		h.log().Error("webhook signature verification failed", "error", err)
		return fmt.Errorf("confirm: verify event: %w", err)
	}

	if event.Type != policies.EventCheckoutCompleted {
		h.log().Debug("ignoring webhook event", "type", event.Type)
		return nil
	}

	// Look the pending row up before the update clears its session id, so
	// the published event can carry the booking details.
	pending, err := h.Bookings.BySession(ctx, event.SessionID)
	if err != nil && !errors.Is(err, domainbooking.ErrNotFound) {
		h.log().Error("booking lookup failed", "session_id", event.SessionID, "error", err)
	}

	// Redelivery after the session was cleared finds no row and falls
	// through as a no-op, which makes the confirmation naturally
	// idempotent.
	matched, err := h.Bookings.ConfirmPayment(ctx, event.SessionID, event.PayerEmail)
	if err != nil {
		h.log().Error("booking confirmation failed", "session_id", event.SessionID, "error", err)
		return nil
	}
	if matched == 0 {
		h.log().Info("no booking for session, skipping", "session_id", event.SessionID)
		return nil
	}

	h.log().Info("booking confirmed", "session_id", event.SessionID, "rows", matched)
	ev := policies.BookingEvent{Type: policies.EventBookingPaid, At: time.Now().UTC()}
	if pending != nil {
		ev.BookingID = pending.ID
		ev.From = pending.From.String()
		ev.To = pending.To.String()
		ev.AmountMinor = pending.Price
	}
	h.publish(ctx, ev)
	return nil
}

func (h *ConfirmPaymentHandler) publish(ctx context.Context, ev policies.BookingEvent) {
	if h.Events == nil {
		return
	}
	if err := h.Events.PublishBookingEvent(ctx, ev); err != nil {
		h.log().Warn("booking event publish failed", "type", ev.Type, "error", err)
	}
}

func (h *ConfirmPaymentHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
