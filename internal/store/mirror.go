package store

import (
	"context"
	"sync"
	"time"

	"velora-storefront/pkg/kv"
	"velora-storefront/pkg/logger"
)

// mirror pushes state snapshots into the durable medium without ever blocking
// the caller. Writes to the same key apply in submission order; intermediate
// snapshots for a key may be coalesced, the latest always lands last.
type mirror struct {
	store   kv.Store
	timeout time.Duration

	mu      sync.Mutex
	pending map[string][]byte
	running map[string]bool
	wg      sync.WaitGroup
}

func newMirror(store kv.Store) *mirror {
	return &mirror{
		store:   store,
		timeout: 5 * time.Second,
		pending: make(map[string][]byte),
		running: make(map[string]bool),
	}
}

// Write schedules payload as the next value for key and returns immediately.
func (m *mirror) Write(key string, payload []byte) {
	m.mu.Lock()
	m.pending[key] = payload
	if !m.running[key] {
		m.running[key] = true
		m.wg.Add(1)
		go m.drain(key)
	}
	m.mu.Unlock()
}

func (m *mirror) drain(key string) {
	defer m.wg.Done()
	for {
		m.mu.Lock()
		payload, ok := m.pending[key]
		if !ok {
			m.running[key] = false
			m.mu.Unlock()
			return
		}
		delete(m.pending, key)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		err := m.store.Set(ctx, key, payload)
		cancel()
		if err != nil {
			// Persistence degradation is never user-visible.
			logger.Warn().Err(err).Str("key", key).Msg("State mirror write failed")
		}
	}
}

// Load reads the durable value for key.
func (m *mirror) Load(ctx context.Context, key string) ([]byte, error) {
	return m.store.Get(ctx, key)
}

// Wait blocks until all scheduled writes have drained. Used on shutdown and
// in tests.
func (m *mirror) Wait() {
	m.wg.Wait()
}
