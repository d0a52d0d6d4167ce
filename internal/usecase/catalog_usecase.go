package usecase

import (
	"context"
	"fmt"

	"velora-storefront/config"
	"velora-storefront/internal/domain"
	"velora-storefront/pkg/cache"
)

// CatalogUsecase is a caching read-through over the remote catalog. The
// storefront never writes products; every miss goes to the upstream API.
type CatalogUsecase struct {
	catalog domain.CatalogService
	cache   cache.CacheService
	cfg     *config.Config
}

func NewCatalogUsecase(catalog domain.CatalogService, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		catalog: catalog,
		cache:   cache,
		cfg:     cfg,
	}
}

func (u *CatalogUsecase) GetProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	key := fmt.Sprintf("products:%d:%d", limit, offset)
	if val, found := u.cache.Get(key); found {
		return val.([]domain.Product), nil
	}

	products, err := u.catalog.GetProducts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	u.cache.Set(key, products, u.cfg.CacheProductTTL)
	return products, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := fmt.Sprintf("product:%d", id)
	if val, found := u.cache.Get(key); found {
		return val.(*domain.Product), nil
	}

	product, err := u.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	u.cache.Set(key, product, u.cfg.CacheProductTTL)
	return product, nil
}

func (u *CatalogUsecase) GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	key := fmt.Sprintf("category:products:%d", categoryID)
	if val, found := u.cache.Get(key); found {
		return val.([]domain.Product), nil
	}

	products, err := u.catalog.GetProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	u.cache.Set(key, products, u.cfg.CacheProductTTL)
	return products, nil
}

// SearchProducts hits upstream on every call. Queries are too varied for the
// cache to earn its memory.
func (u *CatalogUsecase) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return u.catalog.SearchProducts(ctx, query)
}

func (u *CatalogUsecase) GetCategories(ctx context.Context) ([]domain.Category, error) {
	key := "categories:all"
	if val, found := u.cache.Get(key); found {
		return val.([]domain.Category), nil
	}

	categories, err := u.catalog.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	u.cache.Set(key, categories, u.cfg.CacheCategoryTTL)
	return categories, nil
}
