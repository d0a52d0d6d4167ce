package store

import (
	"time"

	"velora-storefront/internal/domain"
	"velora-storefront/pkg/utils"
)

// Cart returns a snapshot of the owner's cart.
func (s *Store) Cart(ownerID string) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[ownerID]
	if !ok {
		return domain.Cart{OwnerID: ownerID, Items: []domain.CartLine{}}
	}
	return snapshotCart(st.cart)
}

// AddToCart adds quantity units of the product to the owner's cart. A product
// already present gets its existing line incremented; a new product appends a
// line at the end of the sequence.
func (s *Store) AddToCart(ownerID string, product domain.Product, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)

	if line := st.cart.LineFor(product.ID); line != nil {
		if line.Quantity+quantity > s.maxQuantity {
			return snapshotCart(st.cart), ErrQuantityLimit
		}
		line.Quantity += quantity
	} else {
		if quantity > s.maxQuantity {
			return snapshotCart(st.cart), ErrQuantityLimit
		}
		st.cart.Items = append(st.cart.Items, domain.CartLine{
			ID:       utils.GenerateUUID(),
			Product:  product,
			Quantity: quantity,
		})
	}

	st.cart.Recalculate()
	st.cart.UpdatedAt = time.Now()
	s.flush(ownerID)
	return snapshotCart(st.cart), nil
}

// UpdateQuantity sets the quantity on an existing line. A quantity of zero or
// less removes the line. Unknown line IDs are a no-op.
func (s *Store) UpdateQuantity(ownerID, lineID string, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)

	idx := -1
	for i := range st.cart.Items {
		if st.cart.Items[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return snapshotCart(st.cart), nil
	}

	if quantity <= 0 {
		st.cart.Items = append(st.cart.Items[:idx], st.cart.Items[idx+1:]...)
	} else {
		if quantity > s.maxQuantity {
			return snapshotCart(st.cart), ErrQuantityLimit
		}
		st.cart.Items[idx].Quantity = quantity
	}

	st.cart.Recalculate()
	st.cart.UpdatedAt = time.Now()
	s.flush(ownerID)
	return snapshotCart(st.cart), nil
}

// RemoveFromCart removes the line with the given ID. Absent lines are a no-op.
func (s *Store) RemoveFromCart(ownerID, lineID string) domain.Cart {
	cart, _ := s.UpdateQuantity(ownerID, lineID, 0)
	return cart
}

// ClearCart empties the owner's cart and resets its totals.
func (s *Store) ClearCart(ownerID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	st.cart.Items = nil
	st.cart.Recalculate()
	st.cart.UpdatedAt = time.Now()
	s.flush(ownerID)
	return snapshotCart(st.cart)
}

func snapshotCart(c domain.Cart) domain.Cart {
	cp := c
	cp.Items = make([]domain.CartLine, len(c.Items))
	copy(cp.Items, c.Items)
	return cp
}
