package repository

import (
	"context"

	"shopapi/internal/model"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	// Keyword matches product names case-insensitively as a substring.
	Keyword string
	Page    PageQuery
}

// ProductRepository defines data access for the catalog and its reviews.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// FindByID returns the product with its reviews.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// FindByIDs returns the products that exist among ids, without reviews.
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// List returns a page of products without reviews.
	List(ctx context.Context, f ProductFilter) (*PageResult[model.Product], error)

	// Top returns the limit highest rated products.
	Top(ctx context.Context, limit int) ([]model.Product, error)

	// Update writes the editable catalog fields.
	Update(ctx context.Context, p *model.Product) (*model.Product, error)

	// Delete removes a product. Returns sql.ErrNoRows if nothing was deleted.
	Delete(ctx context.Context, id string) error

	// AddReview stores r and recomputes the product's rating (mean of all
	// review ratings) and review count atomically, returning both.
	// Returns ErrDuplicate if the user already reviewed the product.
	AddReview(ctx context.Context, r *model.Review) (rating float64, numReviews int, err error)
}
