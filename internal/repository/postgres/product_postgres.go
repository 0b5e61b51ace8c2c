package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
// Reviews live in their own table and are attached on FindByID.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, user_id, name, image, brand, category, description, price, count_in_stock, rating, num_reviews, created_at, updated_at`

func scanProduct(s rowScanner) (*model.Product, error) {
	var p model.Product
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Image,
		&p.Brand,
		&p.Category,
		&p.Description,
		&p.Price,
		&p.CountInStock,
		&p.Rating,
		&p.NumReviews,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Reviews = []model.Review{}
	return &p, nil
}

func (r *ProductPostgres) queryProducts(ctx context.Context, q string, args ...any) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new product row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (id, user_id, name, image, brand, category, description, price, count_in_stock, rating, num_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.UserID,
		p.Name,
		p.Image,
		p.Brand,
		p.Category,
		p.Description,
		p.Price,
		p.CountInStock,
		p.Rating,
		p.NumReviews,
		p.CreatedAt,
	)
	return scanProduct(row)
}

// FindByID fetches a product and its reviews, oldest review first.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	const qReviews = `
		SELECT id, product_id, user_id, name, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, qReviews, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		p.Reviews = append(p.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByIDs fetches all listed products that exist.
func (r *ProductPostgres) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`
	return r.queryProducts(ctx, q, ids)
}

// List returns products matching the filter using LIMIT/OFFSET pagination and a total count.
func (r *ProductPostgres) List(ctx context.Context, f repository.ProductFilter) (*repository.PageResult[model.Product], error) {
	pattern := "%"
	if f.Keyword != "" {
		pattern = "%" + escapeLike(f.Keyword) + "%"
	}

	const qCount = `SELECT COUNT(*) FROM products WHERE name ILIKE $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, pattern).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	items, err := r.queryProducts(ctx, qList, pattern, f.Page.Limit, f.Page.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Product]{Items: items, Total: total}, nil
}

// Top returns the highest rated products.
func (r *ProductPostgres) Top(ctx context.Context, limit int) ([]model.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY rating DESC, num_reviews DESC, id ASC
		LIMIT $1
	`
	return r.queryProducts(ctx, q, limit)
}

// Update writes the editable catalog fields and bumps updated_at.
func (r *ProductPostgres) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products
		SET name = $2, image = $3, brand = $4, category = $5, description = $6,
		    price = $7, count_in_stock = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Image,
		p.Brand,
		p.Category,
		p.Description,
		p.Price,
		p.CountInStock,
	)
	return scanProduct(row)
}

// Delete removes a product by ID. Its reviews cascade.
func (r *ProductPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddReview inserts the review and recomputes the product's rating aggregate
// from the reviews table in one transaction.
func (r *ProductPostgres) AddReview(ctx context.Context, rv *model.Review) (float64, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qInsert = `
		INSERT INTO reviews (id, product_id, user_id, name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, qInsert,
		rv.ID,
		rv.ProductID,
		rv.UserID,
		rv.Name,
		rv.Rating,
		rv.Comment,
		rv.CreatedAt,
	); err != nil {
		return 0, 0, mapWriteErr(err)
	}

	const qUpdate = `
		UPDATE products p
		SET rating = agg.avg_rating, num_reviews = agg.cnt, updated_at = now()
		FROM (
			SELECT COALESCE(AVG(rating), 0)::float8 AS avg_rating, COUNT(*)::int AS cnt
			FROM reviews
			WHERE product_id = $1
		) agg
		WHERE p.id = $1
		RETURNING p.rating, p.num_reviews
	`
	var rating float64
	var numReviews int
	if err := tx.QueryRowContext(ctx, qUpdate, rv.ProductID).Scan(&rating, &numReviews); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return rating, numReviews, nil
}

// escapeLike escapes LIKE wildcards so keywords match literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
