package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
// Shipping address and payment result are stored as JSONB; line items live in order_items.
type OrderPostgres struct {
	db *sql.DB
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db *sql.DB) *OrderPostgres {
	return &OrderPostgres{db: db}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

const orderColumns = `o.id, o.user_id, u.name, u.email, o.shipping_address, o.payment_method, o.payment_result,
	o.items_price, o.tax_price, o.shipping_price, o.total_price, o.status,
	o.is_paid, o.paid_at, o.is_delivered, o.delivered_at, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o JOIN users u ON u.id = o.user_id `

func scanOrder(s rowScanner) (*model.Order, error) {
	var (
		o             model.Order
		userName      string
		userEmail     string
		address       []byte
		paymentResult []byte
		paidAt        sql.NullTime
		deliveredAt   sql.NullTime
	)
	if err := s.Scan(
		&o.ID,
		&o.UserID,
		&userName,
		&userEmail,
		&address,
		&o.PaymentMethod,
		&paymentResult,
		&o.ItemsPrice,
		&o.TaxPrice,
		&o.ShippingPrice,
		&o.TotalPrice,
		&o.Status,
		&o.IsPaid,
		&paidAt,
		&o.IsDelivered,
		&deliveredAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if len(paymentResult) > 0 {
		var pr model.PaymentResult
		if err := json.Unmarshal(paymentResult, &pr); err != nil {
			return nil, fmt.Errorf("decode payment result: %w", err)
		}
		o.PaymentResult = &pr
	}
	o.PaidAt = nullTimePtr(paidAt)
	o.DeliveredAt = nullTimePtr(deliveredAt)
	o.User = &model.UserSummary{ID: o.UserID, Name: userName, Email: userEmail}
	o.OrderItems = []model.OrderItem{}
	return &o, nil
}

// Create inserts the order row and its items in a single transaction.
func (r *OrderPostgres) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("encode shipping address: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qOrder = `
		INSERT INTO orders (id, user_id, shipping_address, payment_method, items_price, tax_price,
		                    shipping_price, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	if _, err := tx.ExecContext(ctx, qOrder,
		o.ID,
		o.UserID,
		address,
		o.PaymentMethod,
		o.ItemsPrice,
		o.TaxPrice,
		o.ShippingPrice,
		o.TotalPrice,
		o.Status,
		o.CreatedAt,
	); err != nil {
		return nil, err
	}

	const qItem = `
		INSERT INTO order_items (order_id, position, product_id, name, image, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, it := range o.OrderItems {
		if _, err := tx.ExecContext(ctx, qItem, o.ID, i, it.ProductID, it.Name, it.Image, it.Quantity, it.Price); err != nil {
			return nil, fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := *o
	out.OrderItems = append([]model.OrderItem(nil), o.OrderItems...)
	return &out, nil
}

// FindByID fetches an order with its items and owner summary.
func (r *OrderPostgres) FindByID(ctx context.Context, id string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + orderFrom + `WHERE o.id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	orders := []model.Order{*o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListByUser returns the user's orders with items, newest first.
func (r *OrderPostgres) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	q := `SELECT ` + orderColumns + orderFrom + `WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`
	orders, err := r.queryOrders(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns all orders using LIMIT/OFFSET pagination and a total count.
func (r *OrderPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Order], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + orderColumns + orderFrom + `ORDER BY o.created_at DESC, o.id DESC LIMIT $1 OFFSET $2`
	orders, err := r.queryOrders(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Order]{Items: orders, Total: total}, nil
}

// UpdateStatus writes payment and delivery state and returns the stored order.
// The row is only touched while its status is still from, so two concurrent
// transitions cannot both succeed.
func (r *OrderPostgres) UpdateStatus(ctx context.Context, o *model.Order, from string) (*model.Order, error) {
	var paymentResult []byte
	if o.PaymentResult != nil {
		b, err := json.Marshal(o.PaymentResult)
		if err != nil {
			return nil, fmt.Errorf("encode payment result: %w", err)
		}
		paymentResult = b
	}

	const q = `
		UPDATE orders
		SET status = $2, payment_result = $3, is_paid = $4, paid_at = $5,
		    is_delivered = $6, delivered_at = $7, updated_at = now()
		WHERE id = $1 AND status = $8
	`
	res, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.Status,
		paymentResult,
		o.IsPaid,
		o.PaidAt,
		o.IsDelivered,
		o.DeliveredAt,
		from,
	)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.missingOrConflict(ctx, o.ID)
		}
		return nil, err
	}
	return r.FindByID(ctx, o.ID)
}

// missingOrConflict tells apart a deleted order from one whose status moved on.
func (r *OrderPostgres) missingOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}
	return repository.ErrConflict
}

func (r *OrderPostgres) queryOrders(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the line items of all orders with one query.
func (r *OrderPostgres) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	const q = `
		SELECT order_id, product_id, name, image, quantity, price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`
	rows, err := r.db.QueryContext(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      model.OrderItem
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Image, &it.Quantity, &it.Price); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].OrderItems = append(orders[i].OrderItems, it)
		}
	}
	return rows.Err()
}
