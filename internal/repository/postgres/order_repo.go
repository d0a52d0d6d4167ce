package postgres

import (
	"context"
	"errors"
	"fmt"

	"velora-storefront/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const insertOrder = `
INSERT INTO orders (id, owner_id, item_count, total, currency, payment_method, payment_status, payment_ref, status, billing, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertOrderItem = `
INSERT INTO order_items (id, order_id, product_id, title, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6)`

// CreateOrder writes the order and its items in one transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	billing, err := json.Marshal(order.Billing)
	if err != nil {
		return fmt.Errorf("failed to encode billing details: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertOrder,
		order.ID, order.OwnerID, order.ItemCount, order.Total, order.Currency,
		order.PaymentMethod, order.PaymentStatus, order.PaymentRef, order.Status,
		billing, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, insertOrderItem,
			item.ID, item.OrderID, item.ProductID, item.Title, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const selectOrder = `
SELECT id, owner_id, item_count, total, currency, payment_method, payment_status, payment_ref, status, billing, created_at
FROM orders`

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, selectOrder+" WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, selectOrder+" WHERE owner_id = $1 ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, title, quantity, price FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Title, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var billing []byte
	err := row.Scan(
		&order.ID, &order.OwnerID, &order.ItemCount, &order.Total, &order.Currency,
		&order.PaymentMethod, &order.PaymentStatus, &order.PaymentRef, &order.Status,
		&billing, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(billing) > 0 {
		if err := json.Unmarshal(billing, &order.Billing); err != nil {
			return nil, fmt.Errorf("failed to decode billing details: %w", err)
		}
	}
	return &order, nil
}
