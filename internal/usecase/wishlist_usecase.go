package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/store"
)

type WishlistUsecase struct {
	store   *store.Store
	catalog *CatalogUsecase
}

func NewWishlistUsecase(store *store.Store, catalog *CatalogUsecase) *WishlistUsecase {
	return &WishlistUsecase{
		store:   store,
		catalog: catalog,
	}
}

func (u *WishlistUsecase) GetMyWishlist(ctx context.Context, userID string) domain.Wishlist {
	u.store.Ensure(ctx, userID)
	return u.store.Wishlist(userID)
}

func (u *WishlistUsecase) AddToWishlist(ctx context.Context, userID string, productID int64) (domain.Wishlist, error) {
	u.store.Ensure(ctx, userID)

	product, err := u.catalog.GetProduct(ctx, productID)
	if err != nil {
		slog.Error("Usecase: AddToWishlist - product lookup failed", "product_id", productID, "error", err)
		return u.store.Wishlist(userID), fmt.Errorf("failed to fetch product: %w", err)
	}
	return u.store.AddToWishlist(userID, *product), nil
}

func (u *WishlistUsecase) RemoveFromWishlist(ctx context.Context, userID string, productID int64) domain.Wishlist {
	u.store.Ensure(ctx, userID)
	return u.store.RemoveFromWishlist(userID, productID)
}

func (u *WishlistUsecase) ClearWishlist(ctx context.Context, userID string) domain.Wishlist {
	u.store.Ensure(ctx, userID)
	return u.store.ClearWishlist(userID)
}

// MoveAllToCart transfers every wishlist entry into the cart, one unit each.
// The wishlist is cleared only after every transfer succeeded; a failure
// part-way leaves the remaining entries where they were.
func (u *WishlistUsecase) MoveAllToCart(ctx context.Context, userID string) (domain.Cart, domain.Wishlist, error) {
	u.store.Ensure(ctx, userID)

	wl := u.store.Wishlist(userID)
	for _, product := range wl.Items {
		if _, err := u.store.AddToCart(userID, product, 1); err != nil {
			slog.Error("Usecase: MoveAllToCart - transfer aborted", "user_id", userID, "product_id", product.ID, "error", err)
			return u.store.Cart(userID), u.store.Wishlist(userID), fmt.Errorf("failed to move product %d to cart: %w", product.ID, err)
		}
	}

	wl = u.store.ClearWishlist(userID)
	cart := u.store.Cart(userID)
	slog.Info("Usecase: MoveAllToCart", "user_id", userID, "moved", cart.ItemCount)
	return cart, wl, nil
}
