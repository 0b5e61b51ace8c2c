package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Reviews are embedded in API responses and
// Rating/NumReviews are kept in sync with them.
type Product struct {
	ID           string          `json:"_id"`
	UserID       string          `json:"user"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	Rating       float64         `json:"rating"`
	NumReviews   int             `json:"numReviews"`
	Reviews      []Review        `json:"reviews"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Review is a single user's rating of a product.
type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"-"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewedBy reports whether userID already left a review.
func (p *Product) ReviewedBy(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
