package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"velora-storefront/config"
	"velora-storefront/internal/domain"
	infracache "velora-storefront/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	calls    int
	fail     bool
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[int64]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) GetProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errors.New("catalog unavailable")
	}
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errors.New("catalog unavailable")
	}
	p, ok := m.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

func (m *mockCatalog) GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var out []domain.Product
	for _, p := range m.products {
		if p.Category.ID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return nil, nil
}

func (m *mockCatalog) GetCategories(ctx context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return []domain.Category{{ID: 1, Name: "Lighting"}}, nil
}

func (m *mockCatalog) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newCatalogUsecase(catalog domain.CatalogService) *CatalogUsecase {
	cfg := &config.Config{CacheProductTTL: time.Minute, CacheCategoryTTL: time.Minute}
	return NewCatalogUsecase(catalog, infracache.NewMemoryCache(time.Minute, 10*time.Minute), cfg)
}

func TestGetProductCachesResult(t *testing.T) {
	catalog := newMockCatalog(domain.Product{ID: 1, Title: "Lamp", Price: 25})
	u := newCatalogUsecase(catalog)

	p, err := u.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Title)

	_, err = u.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.callCount(), "second read must come from cache")
}

func TestGetProductErrorIsNotCached(t *testing.T) {
	catalog := newMockCatalog(domain.Product{ID: 1, Title: "Lamp", Price: 25})
	u := newCatalogUsecase(catalog)

	catalog.fail = true
	_, err := u.GetProduct(context.Background(), 1)
	require.Error(t, err)

	catalog.fail = false
	p, err := u.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Title)
}

func TestGetCategoriesCached(t *testing.T) {
	catalog := newMockCatalog()
	u := newCatalogUsecase(catalog)

	cats, err := u.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)

	_, err = u.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.callCount())
}
