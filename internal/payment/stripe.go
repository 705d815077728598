package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeProvider implements Provider with Stripe embedded checkout:
// the session collects payment in-page and never redirects, and the
// frontend mounts it from the returned client secret.
type StripeProvider struct {
	currency string
}

func NewStripeProvider(apiKey, currency string) *StripeProvider {
	stripe.Key = apiKey
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeProvider{currency: currency}
}

func (p *StripeProvider) CreateSession(ctx context.Context, items []LineItem, metadata map[string]string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                 stripe.String(string(stripe.CheckoutSessionModePayment)),
		UIMode:               stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		RedirectOnCompletion: stripe.String("never"),
		Metadata:             metadata,
	}
	params.Context = ctx
	for _, it := range items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(it.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.currency),
				UnitAmount: stripe.Int64(it.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
		})
	}
	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(s), nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := session.Get(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *CheckoutSession {
	cs := &CheckoutSession{
		ID:           s.ID,
		ClientSecret: s.ClientSecret,
		Paid:         s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:     s.Metadata,
	}
	if s.PaymentIntent != nil {
		cs.PaymentRef = s.PaymentIntent.ID
	}
	return cs
}
