package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"velora-storefront/internal/domain"

	"github.com/goccy/go-json"
)

// Client talks to the remote product catalog API. The catalog owns the data;
// this side only reads.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	endpoint := c.baseURL + "/products"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var products []domain.Product
	if err := c.getJSON(ctx, endpoint, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("%s/categories/%d/products", c.baseURL, categoryID), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	endpoint := c.baseURL + "/products/?title=" + url.QueryEscape(query)
	var products []domain.Product
	if err := c.getJSON(ctx, endpoint, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCategories derives the category list from the product feed, deduped by
// category ID in first-seen order. The catalog API has no standalone
// categories endpoint worth trusting.
func (c *Client) GetCategories(ctx context.Context) ([]domain.Category, error) {
	products, err := c.GetProducts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var categories []domain.Category
	for _, p := range products {
		if p.Category.ID == 0 || seen[p.Category.ID] {
			continue
		}
		seen[p.Category.ID] = true
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog fetch failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
