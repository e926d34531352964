package checkout

import (
	"context"
	"fmt"

	"github.com/entusanojuicio/storefront/internal/api"
	"github.com/entusanojuicio/storefront/internal/domain"
)

// SessionCreator starts a redirect-based payment session for an order.
type SessionCreator interface {
	CreateStripeSession(ctx context.Context, orderID, originURL string) (*api.StripeSession, error)
}

// Cart is the slice of the cart store the initiator needs: clearing it once
// a handoff is committed.
type Cart interface {
	Clear()
}

// Handoff is the outcome of payment initiation: either an external redirect
// to follow (stripe) or an immediate terminal success (embedded paypal).
type Handoff struct {
	RedirectURL string
	Immediate   bool
	Session     domain.PaymentSession
}

// Initiator starts the payment flow for a created order. The cart is cleared
// only after a handoff is committed, never before: a failed or abandoned
// initiation must leave the customer's selections intact.
type Initiator struct {
	sessions  SessionCreator
	cart      Cart
	originURL string
}

func NewInitiator(sessions SessionCreator, cart Cart, originURL string) *Initiator {
	return &Initiator{sessions: sessions, cart: cart, originURL: originURL}
}

// Start initiates payment for orderID with the chosen provider.
//
// stripe: requests an external redirect URL; on receipt the cart is cleared
// and the caller navigates to the URL. On failure the cart is untouched and
// a *PaymentInitiationError is returned.
//
// paypal: the amount was already confirmed through the embedded widget, so
// the flow resolves immediately to success without a server-side status
// check. The redirect/poll and embedded paths are asymmetric on purpose.
func (i *Initiator) Start(ctx context.Context, orderID, provider string) (*Handoff, error) {
	switch provider {
	case domain.ProviderStripe:
		session, err := i.sessions.CreateStripeSession(ctx, orderID, i.originURL)
		if err != nil {
			return nil, &PaymentInitiationError{Err: err}
		}
		i.cart.Clear()
		return &Handoff{
			RedirectURL: session.URL,
			Session: domain.PaymentSession{
				SessionID: session.SessionID,
				OrderID:   orderID,
				Provider:  domain.ProviderStripe,
			},
		}, nil

	case domain.ProviderPayPal:
		i.cart.Clear()
		return &Handoff{
			Immediate: true,
			Session: domain.PaymentSession{
				OrderID:  orderID,
				Provider: domain.ProviderPayPal,
			},
		}, nil

	default:
		return nil, &PaymentInitiationError{Err: fmt.Errorf("unknown provider %q", provider)}
	}
}
