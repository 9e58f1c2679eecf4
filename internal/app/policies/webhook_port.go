package policies

// EventCheckoutCompleted is the processor notification confirming a guest
// finished paying for a session.
const EventCheckoutCompleted = "checkout.session.completed"

// CheckoutEvent is the verified payload of a processor notification.
// SessionID and PayerEmail are populated for completed checkouts only.
type CheckoutEvent struct {
	Type       string
	SessionID  string
	PayerEmail string
}

// WebhookVerifier authenticates a raw notification body against its
// signature header and the shared endpoint secret.
type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (CheckoutEvent, error)
}
