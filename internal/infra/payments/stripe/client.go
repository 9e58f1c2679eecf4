package stripe

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"domehouse/internal/app/policies"
)

// Client opens hosted Checkout sessions. The stripe SDK keeps the API key
// as package state, so construct exactly one Client per process.
type Client struct{}

func New(secretKey string) *Client {
	stripe.Key = secretKey
	return &Client{}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, in policies.CheckoutInput) (policies.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(in.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return policies.CheckoutSession{}, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return policies.CheckoutSession{ID: s.ID}, nil
}

var _ policies.PaymentsPort = (*Client)(nil)
