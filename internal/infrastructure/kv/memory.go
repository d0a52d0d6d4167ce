package kv

import (
	"context"
	"time"

	"velora-storefront/pkg/kv"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	store *gocache.Cache
}

// NewMemoryStore is the in-process fallback used when the durable medium is
// unavailable. It satisfies the same contract but survives nothing: all
// operations resolve successfully for the lifetime of the process only.
func NewMemoryStore() kv.Store {
	return &memoryStore{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v.([]byte), nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	// Copy so callers may reuse their buffer after Set returns.
	buf := make([]byte, len(value))
	copy(buf, value)
	m.store.Set(key, buf, gocache.NoExpiration)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}
