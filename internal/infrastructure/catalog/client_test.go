package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productFeed = `[
	{"id": 1, "title": "Gamepad", "price": 10, "category": {"id": 5, "name": "Electronics"}},
	{"id": 2, "title": "Keyboard", "price": 25.5, "category": {"id": 5, "name": "Electronics"}},
	{"id": 3, "title": "Jacket", "price": 40, "category": {"id": 7, "name": "Clothes"}}
]`

func TestClient_GetProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		w.Write([]byte(productFeed))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	products, err := client.GetProducts(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Gamepad", products[0].Title)
	assert.Equal(t, 25.5, products[1].Price)
}

func TestClient_GetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/42", r.URL.Path)
		w.Write([]byte(`{"id": 42, "title": "Monitor", "price": 199.99}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	product, err := client.GetProduct(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), product.ID)
	assert.Equal(t, 199.99, product.Price)
}

func TestClient_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	_, err := client.GetProducts(context.Background(), 0, 0)
	assert.ErrorContains(t, err, "status 500")

	_, err = client.GetProduct(context.Background(), 1)
	assert.ErrorContains(t, err, "status 500")
}

func TestClient_GetCategoriesDedupes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productFeed))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	categories, err := client.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	// first-seen order preserved
	assert.Equal(t, "Electronics", categories[0].Name)
	assert.Equal(t, "Clothes", categories[1].Name)
}

func TestClient_SearchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gamepad pro", r.URL.Query().Get("title"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	products, err := client.SearchProducts(context.Background(), "gamepad pro")
	require.NoError(t, err)
	assert.Empty(t, products)
}
