package domain

import "time"

// Wishlist is a set of saved products, unique by product ID, with insertion
// order preserved for display.
type Wishlist struct {
	OwnerID   string    `json:"ownerId"`
	Items     []Product `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contains reports whether the wishlist already holds the given product.
func (w *Wishlist) Contains(productID int64) bool {
	for _, p := range w.Items {
		if p.ID == productID {
			return true
		}
	}
	return false
}
