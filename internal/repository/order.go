package repository

import (
	"context"

	"shopapi/internal/model"
)

// OrderRepository defines data access for orders and their line items.
type OrderRepository interface {
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, o *model.Order) (*model.Order, error)

	// FindByID returns the order with items and the owner's summary.
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// List returns a page of all orders with owner summaries, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Order], error)

	// UpdateStatus writes payment and delivery state, provided the stored
	// status still equals from. Otherwise it returns ErrConflict.
	UpdateStatus(ctx context.Context, o *model.Order, from string) (*model.Order, error)
}
