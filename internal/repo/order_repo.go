package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/teesbyshelsea/storefront/internal/database"
	"github.com/teesbyshelsea/storefront/internal/domain"
)

// OrderRepository defines order persistence. Orders are immutable once
// written; there is no update.
type OrderRepository interface {
	Create(order *domain.Order) error
	GetByID(id string) (*domain.Order, error)
	ListByUser(userID string) ([]*domain.Order, error)
}

type orderRepo struct {
	db *database.DB
}

// NewOrderRepository creates the MySQL-backed order repository.
func NewOrderRepository(db *database.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("marshal shipping info: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, items, shipping, payment_method, transaction_ref,
			subtotal, tax, shipping_fee, discount, total, status, created_at, estimated_delivery)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		order.ID,
		order.UserID,
		items,
		shipping,
		string(order.PaymentMethod),
		order.TransactionRef,
		order.Totals.Subtotal,
		order.Totals.Tax,
		order.Totals.Shipping,
		order.Totals.Discount,
		order.Totals.Total,
		string(order.Status),
		order.CreatedAt,
		order.EstimatedDelivery,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id, items, shipping, payment_method, transaction_ref,
	subtotal, tax, shipping_fee, discount, total, status, created_at, estimated_delivery`

func (r *orderRepo) GetByID(id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

func (r *orderRepo) ListByUser(userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var items, shipping []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&items,
		&shipping,
		&order.PaymentMethod,
		&order.TransactionRef,
		&order.Totals.Subtotal,
		&order.Totals.Tax,
		&order.Totals.Shipping,
		&order.Totals.Discount,
		&order.Totals.Total,
		&order.Status,
		&order.CreatedAt,
		&order.EstimatedDelivery,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	if len(shipping) > 0 {
		if err := json.Unmarshal(shipping, &order.Shipping); err != nil {
			return nil, fmt.Errorf("unmarshal shipping info: %w", err)
		}
	}
	return order, nil
}
