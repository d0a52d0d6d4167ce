package payment

import (
	"errors"
	"sync"

	"velora-storefront/internal/domain"
)

// ErrUnknownAttempt is returned when a callback references a transaction the
// registry never opened (or one already consumed).
var ErrUnknownAttempt = errors.New("payment: unknown transaction reference")

// Attempt is the one-shot completion handle for an external payment. The
// widget's success/error/close callbacks resolve it exactly once; the checkout
// flow awaits Outcome() instead of branching inside callbacks.
type Attempt struct {
	Request domain.ChargeRequest

	once    sync.Once
	outcome chan domain.PaymentOutcome
	done    chan struct{}

	mu     sync.Mutex
	result interface{}
}

// Outcome yields the widget's verdict. The channel delivers exactly one value.
func (a *Attempt) Outcome() <-chan domain.PaymentOutcome {
	return a.outcome
}

// Resolve delivers the widget callback. Later calls are ignored; the first
// verdict wins.
func (a *Attempt) Resolve(outcome domain.PaymentOutcome) {
	a.once.Do(func() {
		a.outcome <- outcome
	})
}

// Finish records the final checkout result and releases Done waiters.
func (a *Attempt) Finish(result interface{}) {
	a.mu.Lock()
	a.result = result
	a.mu.Unlock()
	close(a.done)
}

// Done is closed once the checkout flow has fully settled this attempt.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Result returns the settled checkout result; nil before Done closes.
func (a *Attempt) Result() interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Registry tracks open attempts keyed by transaction reference so the widget
// callback endpoint can find the flow that is waiting on it.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewRegistry() *Registry {
	return &Registry{attempts: make(map[string]*Attempt)}
}

// Open creates an attempt for the given charge request.
func (r *Registry) Open(req domain.ChargeRequest) *Attempt {
	attempt := &Attempt{
		Request: req,
		outcome: make(chan domain.PaymentOutcome, 1),
		done:    make(chan struct{}),
	}
	r.mu.Lock()
	r.attempts[req.TxRef] = attempt
	r.mu.Unlock()
	return attempt
}

// Lookup finds an open attempt by transaction reference.
func (r *Registry) Lookup(txRef string) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[txRef]
	if !ok {
		return nil, ErrUnknownAttempt
	}
	return attempt, nil
}

// Close removes a settled attempt from the registry.
func (r *Registry) Close(txRef string) {
	r.mu.Lock()
	delete(r.attempts, txRef)
	r.mu.Unlock()
}
