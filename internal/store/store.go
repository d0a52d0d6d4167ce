package store

import (
	"context"
	"errors"
	"sync"

	"velora-storefront/internal/domain"
	"velora-storefront/pkg/kv"
	"velora-storefront/pkg/logger"

	"github.com/goccy/go-json"
)

// ErrQuantityLimit is returned when a cart mutation would exceed the
// configured per-line maximum.
var ErrQuantityLimit = errors.New("store: quantity exceeds maximum limit")

// Store is the application state container: per-owner cart, wishlist and
// theme, mutated only through its own operations and mirrored asynchronously
// into the durable medium after every change. Session state never enters the
// mirror; it is re-established through the identity gateway on each start.
type Store struct {
	mirror      *mirror
	maxQuantity int

	mu       sync.RWMutex
	states   map[string]*ownerState
	hydrated map[string]bool
	degraded map[string]bool
}

type ownerState struct {
	cart     domain.Cart
	wishlist domain.Wishlist
	theme    string
	billing  *domain.BillingDetails
}

// persistedSlice is the single namespaced record written per owner.
type persistedSlice struct {
	Cart     domain.Cart            `json:"cart"`
	Wishlist domain.Wishlist        `json:"wishlist"`
	Theme    string                 `json:"theme"`
	Billing  *domain.BillingDetails `json:"billing,omitempty"`
}

func New(medium kv.Store, maxQuantity int) *Store {
	return &Store{
		mirror:      newMirror(medium),
		maxQuantity: maxQuantity,
		states:      make(map[string]*ownerState),
		hydrated:    make(map[string]bool),
		degraded:    make(map[string]bool),
	}
}

func stateKey(ownerID string) string {
	return "state:" + ownerID
}

// Ensure rehydrates an owner's slice from the durable medium before the first
// read or mutation. A missing record yields a fresh state; a transient read
// failure leaves the owner unhydrated so the next touch retries, and mirror
// writes for that owner are suppressed until a load succeeds so the durable
// record is never overwritten with an empty slice. The load itself runs
// without the store lock held.
func (s *Store) Ensure(ctx context.Context, ownerID string) {
	s.mu.RLock()
	done := s.hydrated[ownerID]
	s.mu.RUnlock()
	if done {
		return
	}

	data, err := s.mirror.Load(ctx, stateKey(ownerID))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated[ownerID] {
		return
	}
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			s.hydrated[ownerID] = true
			delete(s.degraded, ownerID)
			return
		}
		logger.Warn().Err(err).Str("owner_id", ownerID).Msg("State rehydration failed, will retry")
		s.degraded[ownerID] = true
		return
	}
	s.hydrated[ownerID] = true
	delete(s.degraded, ownerID)

	// An owner that mutated state before hydration completed keeps the live
	// copy; the durable record is stale by definition. Mutations held back
	// during the outage get mirrored now.
	if _, exists := s.states[ownerID]; exists {
		s.flush(ownerID)
		return
	}

	var slice persistedSlice
	if err := json.Unmarshal(data, &slice); err != nil {
		logger.Warn().Err(err).Str("owner_id", ownerID).Msg("Persisted state corrupt, starting fresh")
		return
	}

	state := &ownerState{
		cart:     slice.Cart,
		wishlist: slice.Wishlist,
		theme:    slice.Theme,
		billing:  slice.Billing,
	}
	state.cart.OwnerID = ownerID
	state.wishlist.OwnerID = ownerID
	// Totals are derived state; never trust the stored copy.
	state.cart.Recalculate()
	s.states[ownerID] = state
}

// state returns the owner's mutable state, creating it on first touch.
// Callers must hold s.mu.
func (s *Store) state(ownerID string) *ownerState {
	st, ok := s.states[ownerID]
	if !ok {
		st = &ownerState{
			cart:     domain.Cart{OwnerID: ownerID},
			wishlist: domain.Wishlist{OwnerID: ownerID},
			theme:    domain.ThemeSystem,
		}
		s.states[ownerID] = st
	}
	return st
}

// flush schedules an async mirror write of the owner's slice. Callers must
// hold s.mu (read or write).
func (s *Store) flush(ownerID string) {
	// While the durable record could not be read, writing would replace it
	// with a partial slice; hold off until rehydration succeeds.
	if s.degraded[ownerID] {
		return
	}
	st, ok := s.states[ownerID]
	if !ok {
		return
	}
	payload, err := json.Marshal(persistedSlice{
		Cart:     st.cart,
		Wishlist: st.wishlist,
		Theme:    st.theme,
		Billing:  st.billing,
	})
	if err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("State snapshot marshal failed")
		return
	}
	s.mirror.Write(stateKey(ownerID), payload)
}

// Flush waits for all scheduled mirror writes to land. Called on shutdown.
func (s *Store) Flush() {
	s.mirror.Wait()
}

// SavedBilling returns the owner's saved billing contact, if any.
func (s *Store) SavedBilling(ownerID string) *domain.BillingDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[ownerID]
	if !ok || st.billing == nil {
		return nil
	}
	cp := *st.billing
	return &cp
}

// SaveBilling stores the billing contact in the owner's persisted slice.
func (s *Store) SaveBilling(ownerID string, billing domain.BillingDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := billing
	s.state(ownerID).billing = &cp
	s.flush(ownerID)
}
