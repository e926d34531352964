package checkout

import (
	"context"
	"time"

	"github.com/entusanojuicio/storefront/internal/api"
	"github.com/entusanojuicio/storefront/internal/domain"
)

// State is the poller's observable state. Success, pending and error are
// absorbing: no backward transitions exist.
type State string

const (
	StateChecking State = "checking"
	StateSuccess  State = "success"
	StatePending  State = "pending"
	StateError    State = "error"
)

// Terminal reports whether no further automatic transition occurs.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StatePending || s == StateError
}

const (
	defaultMaxAttempts  = 5
	defaultPollInterval = 2 * time.Second
)

// StatusFetcher is the one query the poller issues.
type StatusFetcher interface {
	CheckoutStatus(ctx context.Context, sessionID string) (*api.CheckoutStatus, error)
}

// Result is the terminal outcome of a poll run. Cause carries the reason for
// an error state (*PollTransportError or ErrSessionExpired).
type Result struct {
	State    State
	Attempts int
	Cause    error
}

// Poller confirms payment after return from a redirect-based provider. It
// queries the session status up to maxAttempts times, waiting a fixed
// interval between queries, and converges to a terminal state:
//
//	paid            -> success
//	expired         -> error
//	transport error -> error (not retried)
//	still open      -> re-query; after maxAttempts queries -> pending
//
// A session arriving through the embedded provider path never polls: it is
// constructed directly in success. A missing session id with no embedded
// marker is an immediate error with zero network calls.
type Poller struct {
	status      StatusFetcher
	maxAttempts int
	interval    time.Duration
	onChange    func(State, int)
}

func NewPoller(status StatusFetcher) *Poller {
	return &Poller{
		status:      status,
		maxAttempts: defaultMaxAttempts,
		interval:    defaultPollInterval,
	}
}

// WithInterval overrides the inter-poll delay. Tests use this to avoid
// real waits.
func (p *Poller) WithInterval(d time.Duration) *Poller {
	p.interval = d
	return p
}

// OnChange registers an observer invoked on every state transition,
// including the initial checking state.
func (p *Poller) OnChange(fn func(State, int)) {
	p.onChange = fn
}

// Run drives the state machine to a terminal state. Cancelling ctx while a
// query or delay is outstanding abandons the run: Run returns ctx.Err() and
// no state transition is reported after cancellation.
func (p *Poller) Run(ctx context.Context, session domain.PaymentSession) (*Result, error) {
	if session.Provider == domain.ProviderPayPal {
		return p.finish(StateSuccess, 0, nil), nil
	}
	if session.SessionID == "" {
		return p.finish(StateError, 0, nil), nil
	}

	p.transition(StateChecking, 0)

	attempts := 0
	for {
		if attempts >= p.maxAttempts {
			return p.finish(StatePending, attempts, nil), nil
		}

		status, err := p.status.CheckoutStatus(ctx, session.SessionID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return p.finish(StateError, attempts, &PollTransportError{Err: err}), nil
		}

		switch {
		case status.PaymentStatus == "paid":
			return p.finish(StateSuccess, attempts, nil), nil
		case status.Status == "expired":
			return p.finish(StateError, attempts, ErrSessionExpired), nil
		}

		attempts++
		if err := p.wait(ctx); err != nil {
			return nil, err
		}
		p.transition(StateChecking, attempts)
	}
}

// wait blocks for the poll interval or until ctx is cancelled, whichever
// comes first. The timer is discarded on cancellation.
func (p *Poller) wait(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) finish(state State, attempts int, cause error) *Result {
	p.transition(state, attempts)
	return &Result{State: state, Attempts: attempts, Cause: cause}
}

func (p *Poller) transition(state State, attempts int) {
	if p.onChange != nil {
		p.onChange(state, attempts)
	}
}
