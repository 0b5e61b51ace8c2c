package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. An order only moves forward through them.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
)

// Order is a placed purchase with a server-computed price breakdown.
type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"-"`
	User            *UserSummary    `json:"user,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Status          string          `json:"status"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is a line item. Name, Image and Price are copied from the
// product when the order is created.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
}

// PaymentResult is the payment provider's confirmation reported by the client.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// MarkPaid records payment. It reports false if the order was already paid.
func (o *Order) MarkPaid(result PaymentResult, at time.Time) bool {
	if o.IsPaid {
		return false
	}
	o.IsPaid = true
	o.PaidAt = &at
	o.PaymentResult = &result
	o.Status = OrderStatusPaid
	return true
}

// MarkDelivered records delivery. It reports false unless the order is paid
// and not yet delivered.
func (o *Order) MarkDelivered(at time.Time) bool {
	if !o.IsPaid || o.IsDelivered {
		return false
	}
	o.IsDelivered = true
	o.DeliveredAt = &at
	o.Status = OrderStatusDelivered
	return true
}
