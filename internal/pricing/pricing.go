// Package pricing computes the price breakdown of an order.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shopapi/internal/config"
)

// Rules configure tax and shipping.
type Rules struct {
	TaxRate          decimal.Decimal
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
}

// DefaultRules are 15% tax and a flat 10 shipping fee waived above 100.
func DefaultRules() Rules {
	return Rules{
		TaxRate:          decimal.RequireFromString("0.15"),
		FreeShippingOver: decimal.NewFromInt(100),
		ShippingFee:      decimal.NewFromInt(10),
	}
}

// RulesFromConfig parses the configured decimal strings.
func RulesFromConfig(c config.PricingConfig) (Rules, error) {
	tax, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return Rules{}, fmt.Errorf("invalid tax rate %q: %w", c.TaxRate, err)
	}
	over, err := decimal.NewFromString(c.FreeShippingOver)
	if err != nil {
		return Rules{}, fmt.Errorf("invalid free shipping threshold %q: %w", c.FreeShippingOver, err)
	}
	fee, err := decimal.NewFromString(c.ShippingFee)
	if err != nil {
		return Rules{}, fmt.Errorf("invalid shipping fee %q: %w", c.ShippingFee, err)
	}
	if tax.IsNegative() || over.IsNegative() || fee.IsNegative() {
		return Rules{}, fmt.Errorf("pricing values must not be negative")
	}
	return Rules{TaxRate: tax, FreeShippingOver: over, ShippingFee: fee}, nil
}

// LineItem is a unit price and a quantity.
type LineItem struct {
	Price    decimal.Decimal
	Quantity int
}

// Breakdown is the computed order price. All values have two decimal places.
type Breakdown struct {
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
}

// Calculate sums the items, then applies shipping (free strictly above
// FreeShippingOver) and tax on the items subtotal.
func Calculate(items []LineItem, r Rules) Breakdown {
	itemsPrice := decimal.Zero
	for _, it := range items {
		itemsPrice = itemsPrice.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := r.ShippingFee
	if itemsPrice.GreaterThan(r.FreeShippingOver) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)

	tax := r.TaxRate.Mul(itemsPrice).Round(2)

	return Breakdown{
		ItemsPrice:    itemsPrice,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    itemsPrice.Add(shipping).Add(tax).Round(2),
	}
}
