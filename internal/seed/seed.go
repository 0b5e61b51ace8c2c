// Package seed loads sample users and products into an empty catalog.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/applog"
	"shopapi/internal/auth"
)

// ErrNoAdmin is returned when the fixtures contain no admin user to own the products.
var ErrNoAdmin = errors.New("seed data has no admin user")

// UserFixture is a sample account. Password is stored bcrypt-hashed.
type UserFixture struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// ProductFixture is a sample catalog entry owned by the first admin.
type ProductFixture struct {
	Name         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        decimal.Decimal
	CountInStock int
}

// Fixtures is the full data set written by Seed.
type Fixtures struct {
	Users    []UserFixture
	Products []ProductFixture
}

// Result summarizes a successful Seed.
type Result struct {
	AdminID  string
	Users    int
	Products int
}

// Deletion order respects foreign keys.
var tables = []string{"order_items", "orders", "reviews", "products", "users"}

// Seeder writes fixtures through a *sql.DB.
type Seeder struct {
	db   *sql.DB
	loc  *time.Location
	hash func(string) (string, error)
	id   func() string
	now  func() time.Time
}

// New creates a Seeder logging in loc.
func New(db *sql.DB, loc *time.Location) *Seeder {
	return &Seeder{
		db:   db,
		loc:  loc,
		hash: auth.HashPassword,
		id:   func() string { return uuid.NewString() },
		now:  time.Now,
	}
}

// Seed replaces all data with f inside one transaction.
// Nothing is written unless every statement succeeds.
func (s *Seeder) Seed(ctx context.Context, f Fixtures) (res *Result, err error) {
	start := s.now()
	applog.Info(s.loc, "seed_started", map[string]any{"users": len(f.Users), "products": len(f.Products)})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
		applog.Error(s.loc, "seed_failed", err, nil)
	}()

	if err = deleteAll(ctx, tx); err != nil {
		return nil, err
	}

	res = &Result{}
	now := s.now().UTC()
	for _, u := range f.Users {
		var hash string
		hash, err = s.hash(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		id := s.id()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at)
			VALUES ($1, $2, lower($3), $4, $5, $6, $6)`,
			id, u.Name, u.Email, hash, u.IsAdmin, now)
		if err != nil {
			return nil, fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		if u.IsAdmin && res.AdminID == "" {
			res.AdminID = id
		}
		res.Users++
	}
	if res.AdminID == "" {
		err = ErrNoAdmin
		return nil, err
	}

	for _, p := range f.Products {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO products (id, user_id, name, image, brand, category, description, price, count_in_stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
			s.id(), res.AdminID, p.Name, p.Image, p.Brand, p.Category, p.Description, p.Price, p.CountInStock, now)
		if err != nil {
			return nil, fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		res.Products++
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	applog.Info(s.loc, "seed_completed", map[string]any{
		"admin_id":    res.AdminID,
		"users":       res.Users,
		"products":    res.Products,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

// Destroy deletes all data without a transaction.
func (s *Seeder) Destroy(ctx context.Context) error {
	if err := deleteAll(ctx, s.db); err != nil {
		applog.Error(s.loc, "seed_destroy_failed", err, nil)
		return err
	}
	applog.Info(s.loc, "seed_destroyed", map[string]any{"tables": tables})
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteAll(ctx context.Context, db execer) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("delete %s: %w", t, err)
		}
	}
	return nil
}
