package domain

import (
	"context"
	"time"
)

// Order statuses
const (
	OrderStatusPlaced     = "placed"
	OrderStatusProcessing = "processing"
)

// Payment statuses
const (
	PaymentStatusPending = "pending" // cash on delivery, collected later
	PaymentStatusPaid    = "paid"    // verified external payment
)

// Order is the durable record written when a checkout attempt reaches
// Completed. Nothing is written for Failed attempts.
type Order struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"ownerId"`
	Items         []OrderItem    `json:"items"`
	ItemCount     int            `json:"itemCount"`
	Total         float64        `json:"total"`
	Currency      string         `json:"currency"`
	PaymentMethod string         `json:"paymentMethod"`
	PaymentStatus string         `json:"paymentStatus"`
	PaymentRef    *string        `json:"paymentRef,omitempty"` // provider flw_ref for bank orders
	Status        string         `json:"status"`
	Billing       BillingDetails `json:"billing"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"orderId"`
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // unit price at time of purchase
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]Order, error)
}
