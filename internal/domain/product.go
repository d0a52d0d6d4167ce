package domain

import (
	"context"
	"time"
)

// Product is owned by the external catalog API. The storefront never mutates
// it; cart lines and wishlist entries hold it by value as a read-only snapshot.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"creationAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CatalogService is the read boundary over the remote product catalog.
type CatalogService interface {
	GetProducts(ctx context.Context, limit, offset int) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
	GetCategories(ctx context.Context) ([]Category, error)
}
