package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/model"
	"shopapi/internal/pricing"
	"shopapi/internal/repository"
)

// OrderListResult is the service-level DTO for paginated orders.
type OrderListResult struct {
	Items []model.Order `json:"data"`
	Total int           `json:"total"`
}

// OrderItemInput is a requested product and quantity. Prices are never taken
// from the client.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput carries a new order.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
}

// OrderService defines the order use cases.
type OrderService interface {
	// Create prices the order from the current catalog and stores it for userID.
	Create(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error)

	// Get returns the order if requester owns it or is an admin.
	Get(ctx context.Context, id string, requester *model.User) (*model.Order, error)

	Mine(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context, limit, offset int) (*OrderListResult, error)

	// Pay marks the order paid. Returns ErrAlreadyPaid on a second payment.
	Pay(ctx context.Context, id string, requester *model.User, result model.PaymentResult) (*model.Order, error)

	// Deliver marks a paid order delivered. Returns ErrNotDeliverable otherwise.
	Deliver(ctx context.Context, id string) (*model.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	rules    pricing.Rules
	now      func() time.Time
}

// NewOrderService constructs a new OrderService.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, rules pricing.Rules) OrderService {
	return &orderService{orders: orders, products: products, rules: rules, now: time.Now}
}

func (s *orderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoOrderItems
	}

	ids := make([]string, 0, len(in.Items))
	wanted := make(map[string]int, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if _, seen := wanted[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	catalog := make(map[string]model.Product, len(found))
	for _, p := range found {
		catalog[p.ID] = p
	}
	for _, id := range ids {
		p, ok := catalog[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		if wanted[id] > p.CountInStock {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	lines := make([]pricing.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		p := catalog[it.ProductID]
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
		lines = append(lines, pricing.LineItem{Price: p.Price, Quantity: it.Quantity})
	}
	prices := pricing.Calculate(lines, s.rules)

	now := s.now().UTC()
	o := &model.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		OrderItems:      items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      prices.ItemsPrice,
		TaxPrice:        prices.TaxPrice,
		ShippingPrice:   prices.ShippingPrice,
		TotalPrice:      prices.TotalPrice,
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.orders.Create(ctx, o)
}

func (s *orderService) Get(ctx context.Context, id string, requester *model.User) (*model.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester == nil || (!requester.IsAdmin && requester.ID != o.UserID) {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *orderService) Mine(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// List returns paginated orders without exposing repository types.
func (s *orderService) List(ctx context.Context, limit, offset int) (*OrderListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.orders.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *orderService) Pay(ctx context.Context, id string, requester *model.User, result model.PaymentResult) (*model.Order, error) {
	o, err := s.Get(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if !o.MarkPaid(result, s.now().UTC()) {
		return nil, ErrAlreadyPaid
	}
	return s.save(ctx, o, from, ErrAlreadyPaid)
}

func (s *orderService) Deliver(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if !o.MarkDelivered(s.now().UTC()) {
		return nil, ErrNotDeliverable
	}
	return s.save(ctx, o, from, ErrNotDeliverable)
}

func (s *orderService) find(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// save persists a transition out of status from. A concurrent transition
// that got there first surfaces as lost.
func (s *orderService) save(ctx context.Context, o *model.Order, from string, lost error) (*model.Order, error) {
	updated, err := s.orders.UpdateStatus(ctx, o, from)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrOrderNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, lost
		}
		return nil, err
	}
	return updated, nil
}
