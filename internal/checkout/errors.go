package checkout

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is reported when the provider says the payment session
// expired. Terminal for the poller.
var ErrSessionExpired = errors.New("payment session expired")

// ValidationError is a contact-form problem caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OrderCreationError wraps a failed order-creation request. The cart is
// preserved and the caller may retry.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

// PaymentInitiationError wraps a failed payment-session setup. The cart has
// not been cleared yet.
type PaymentInitiationError struct {
	Err error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed: %v", e.Err)
}

func (e *PaymentInitiationError) Unwrap() error { return e.Err }

// PollTransportError wraps a status query that failed at the transport
// level. Not retried: a clear failure beats silent retry on a broken network.
type PollTransportError struct {
	Err error
}

func (e *PollTransportError) Error() string {
	return fmt.Sprintf("payment status query failed: %v", e.Err)
}

func (e *PollTransportError) Unwrap() error { return e.Err }
