package payment

import "context"

// LineItem is one priced row of a checkout session. UnitAmount is in the
// smallest currency unit.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// CheckoutSession is the provider-owned payment record, referenced by its
// opaque ID. ClientSecret is handed to the frontend to drive the hosted
// payment form; PaymentRef identifies the captured payment once Paid.
type CheckoutSession struct {
	ID           string
	ClientSecret string
	PaymentRef   string
	Paid         bool
	Metadata     map[string]string
}

// Provider is the hosted checkout provider. Metadata attached at creation
// is returned verbatim on retrieval and is the source of truth for which
// buyer and cart items a session belongs to.
type Provider interface {
	CreateSession(ctx context.Context, items []LineItem, metadata map[string]string) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, id string) (*CheckoutSession, error)
}
