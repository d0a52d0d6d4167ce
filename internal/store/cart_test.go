package store

import (
	"testing"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/infrastructure/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id int64, price float64) domain.Product {
	return domain.Product{ID: id, Title: "product", Price: price}
}

func newTestStore() *Store {
	return New(kv.NewMemoryStore(), 1000)
}

func TestAddToCartAggregatesByProduct(t *testing.T) {
	s := newTestStore()

	cart, err := s.AddToCart("u1", testProduct(1, 10), 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	lineID := cart.Items[0].ID

	cart, err = s.AddToCart("u1", testProduct(1, 10), 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product must not create a second line")
	assert.Equal(t, lineID, cart.Items[0].ID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.InDelta(t, 30.0, cart.Total, 1e-9)
}

func TestAddToCartPreservesInsertionOrder(t *testing.T) {
	s := newTestStore()

	_, err := s.AddToCart("u1", testProduct(3, 1), 1)
	require.NoError(t, err)
	_, err = s.AddToCart("u1", testProduct(1, 1), 1)
	require.NoError(t, err)
	cart, err := s.AddToCart("u1", testProduct(2, 1), 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 3)
	assert.Equal(t, int64(3), cart.Items[0].Product.ID)
	assert.Equal(t, int64(1), cart.Items[1].Product.ID)
	assert.Equal(t, int64(2), cart.Items[2].Product.ID)
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore()
	cart, err := s.AddToCart("u1", testProduct(1, 5), 2)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	cart, err = s.UpdateQuantity("u1", lineID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.Equal(t, 7, cart.ItemCount)
	assert.InDelta(t, 35.0, cart.Total, 1e-9)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := newTestStore()
	cart, err := s.AddToCart("u1", testProduct(1, 5), 2)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	cart, err = s.UpdateQuantity("u1", lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount)
	assert.Zero(t, cart.Total)
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	s := newTestStore()
	_, err := s.AddToCart("u1", testProduct(1, 5), 2)
	require.NoError(t, err)

	cart, err := s.UpdateQuantity("u1", "missing", 4)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	s := newTestStore()
	_, err := s.AddToCart("u1", testProduct(1, 5), 1)
	require.NoError(t, err)
	cart, err := s.AddToCart("u1", testProduct(2, 3), 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	cart = s.RemoveFromCart("u1", cart.Items[0].ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].Product.ID)
	assert.Equal(t, 2, cart.ItemCount)
	assert.InDelta(t, 6.0, cart.Total, 1e-9)

	// Absent line is a no-op.
	cart = s.RemoveFromCart("u1", "missing")
	require.Len(t, cart.Items, 1)
}

func TestClearCart(t *testing.T) {
	s := newTestStore()
	_, err := s.AddToCart("u1", testProduct(1, 5), 3)
	require.NoError(t, err)

	cart := s.ClearCart("u1")
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount)
	assert.Zero(t, cart.Total)
}

func TestAddToCartQuantityLimit(t *testing.T) {
	s := New(kv.NewMemoryStore(), 5)

	_, err := s.AddToCart("u1", testProduct(1, 1), 5)
	require.NoError(t, err)

	cart, err := s.AddToCart("u1", testProduct(1, 1), 1)
	assert.ErrorIs(t, err, ErrQuantityLimit)
	assert.Equal(t, 5, cart.Items[0].Quantity, "rejected mutation must leave the cart untouched")

	_, err = s.UpdateQuantity("u1", cart.Items[0].ID, 6)
	assert.ErrorIs(t, err, ErrQuantityLimit)
}

func TestCartsAreIsolatedPerOwner(t *testing.T) {
	s := newTestStore()
	_, err := s.AddToCart("u1", testProduct(1, 5), 1)
	require.NoError(t, err)

	assert.Empty(t, s.Cart("u2").Items)
	assert.Len(t, s.Cart("u1").Items, 1)
}

func TestCartSnapshotIsDetached(t *testing.T) {
	s := newTestStore()
	cart, err := s.AddToCart("u1", testProduct(1, 5), 1)
	require.NoError(t, err)

	cart.Items[0].Quantity = 99
	assert.Equal(t, 1, s.Cart("u1").Items[0].Quantity)
}
