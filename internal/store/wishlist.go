package store

import (
	"time"

	"velora-storefront/internal/domain"
)

// Wishlist returns a snapshot of the owner's wishlist.
func (s *Store) Wishlist(ownerID string) domain.Wishlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[ownerID]
	if !ok {
		return domain.Wishlist{OwnerID: ownerID, Items: []domain.Product{}}
	}
	return snapshotWishlist(st.wishlist)
}

// AddToWishlist appends the product unless it is already present. Adding a
// duplicate is a no-op, not an error.
func (s *Store) AddToWishlist(ownerID string, product domain.Product) domain.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	if !st.wishlist.Contains(product.ID) {
		st.wishlist.Items = append(st.wishlist.Items, product)
		st.wishlist.UpdatedAt = time.Now()
		s.flush(ownerID)
	}
	return snapshotWishlist(st.wishlist)
}

// RemoveFromWishlist removes the product. Absent products are a no-op.
func (s *Store) RemoveFromWishlist(ownerID string, productID int64) domain.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	for i := range st.wishlist.Items {
		if st.wishlist.Items[i].ID == productID {
			st.wishlist.Items = append(st.wishlist.Items[:i], st.wishlist.Items[i+1:]...)
			st.wishlist.UpdatedAt = time.Now()
			s.flush(ownerID)
			break
		}
	}
	return snapshotWishlist(st.wishlist)
}

// ClearWishlist empties the owner's wishlist.
func (s *Store) ClearWishlist(ownerID string) domain.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	st.wishlist.Items = nil
	st.wishlist.UpdatedAt = time.Now()
	s.flush(ownerID)
	return snapshotWishlist(st.wishlist)
}

func snapshotWishlist(w domain.Wishlist) domain.Wishlist {
	cp := w
	cp.Items = make([]domain.Product, len(w.Items))
	copy(cp.Items, w.Items)
	return cp
}
