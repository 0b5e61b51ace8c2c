package repository

import (
	"context"

	"shopapi/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a user. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns users ordered by creation time, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)

	// Update writes name, email, password hash and admin flag.
	// Returns ErrDuplicate if the new email is taken.
	Update(ctx context.Context, u *model.User) (*model.User, error)

	// Delete removes a user. Returns sql.ErrNoRows if nothing was deleted and
	// ErrReferenced while the user still owns products.
	Delete(ctx context.Context, id string) error
}
