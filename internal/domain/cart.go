package domain

import "time"

// CartLine binds one distinct product to a quantity. The line ID is generated
// locally and is unique per line, not per product.
type CartLine struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart holds the ordered line sequence plus derived totals. ItemCount and
// Total are always recomputed from Items after every mutation; they are never
// written independently.
type Cart struct {
	OwnerID   string     `json:"ownerId"`
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"itemCount"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Recalculate rebuilds the derived totals as a pure function of the line
// sequence. Idempotent.
func (c *Cart) Recalculate() {
	count := 0
	total := 0.0
	for _, line := range c.Items {
		count += line.Quantity
		total += line.Product.Price * float64(line.Quantity)
	}
	c.ItemCount = count
	c.Total = total
}

// LineFor returns the line holding the given product, if any.
func (c *Cart) LineFor(productID int64) *CartLine {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
