package stripe

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"domehouse/internal/app/policies"
)

// WebhookVerifier checks the Stripe-Signature header against the endpoint
// secret over the raw body.
type WebhookVerifier struct {
	Secret string
}

func (v WebhookVerifier) VerifyEvent(payload []byte, signature string) (policies.CheckoutEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, v.Secret)
	if err != nil {
		return policies.CheckoutEvent{}, fmt.Errorf("stripe: construct event: %w", err)
	}

	out := policies.CheckoutEvent{Type: string(event.Type)}
	if out.Type != policies.EventCheckoutCompleted {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return policies.CheckoutEvent{}, fmt.Errorf("stripe: decode checkout session: %w", err)
	}
	out.SessionID = cs.ID
	if cs.CustomerDetails != nil {
		out.PayerEmail = cs.CustomerDetails.Email
	}
	return out, nil
}

var _ policies.WebhookVerifier = WebhookVerifier{}
