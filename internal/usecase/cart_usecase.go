package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/store"
)

// CartUsecase resolves product references against the catalog before handing
// mutations to the state store. Quantity positivity is enforced here; the
// store treats non-positive quantities on update as removal.
type CartUsecase struct {
	store   *store.Store
	catalog *CatalogUsecase
}

func NewCartUsecase(store *store.Store, catalog *CatalogUsecase) *CartUsecase {
	return &CartUsecase{
		store:   store,
		catalog: catalog,
	}
}

func (u *CartUsecase) GetMyCart(ctx context.Context, userID string) domain.Cart {
	u.store.Ensure(ctx, userID)
	return u.store.Cart(userID)
}

func (u *CartUsecase) AddToCart(ctx context.Context, userID string, productID int64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	u.store.Ensure(ctx, userID)

	product, err := u.catalog.GetProduct(ctx, productID)
	if err != nil {
		slog.Error("Usecase: AddToCart - product lookup failed", "product_id", productID, "error", err)
		return u.store.Cart(userID), fmt.Errorf("failed to fetch product: %w", err)
	}

	cart, err := u.store.AddToCart(userID, *product, quantity)
	if err != nil {
		return cart, err
	}
	slog.Info("Usecase: AddToCart", "user_id", userID, "product_id", productID, "quantity", quantity, "item_count", cart.ItemCount)
	return cart, nil
}

func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (domain.Cart, error) {
	u.store.Ensure(ctx, userID)
	return u.store.UpdateQuantity(userID, lineID, quantity)
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID, lineID string) domain.Cart {
	u.store.Ensure(ctx, userID)
	return u.store.RemoveFromCart(userID, lineID)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID string) domain.Cart {
	u.store.Ensure(ctx, userID)
	return u.store.ClearCart(userID)
}
