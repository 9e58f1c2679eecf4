package policies

import "context"

// CheckoutInput describes the hosted payment session the processor should
// open. AmountMinor is the full stay price in minor currency units.
type CheckoutInput struct {
	Description string
	AmountMinor int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID string
}

type PaymentsPort interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (CheckoutSession, error)
}
