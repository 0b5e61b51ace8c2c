package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/auth"
	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileInput carries a self-service profile update. Empty fields are left unchanged.
type ProfileInput struct {
	Name     string
	Email    string
	Password string
}

// AdminUpdateInput carries an admin's update of another account.
// Empty Name/Email are left unchanged; IsAdmin is always written.
type AdminUpdateInput struct {
	Name    string
	Email   string
	IsAdmin bool
}

// UserService defines the account use cases.
type UserService interface {
	// Register creates an account. Returns ErrEmailTaken on a duplicate email.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	// Login verifies credentials. Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (*model.User, error)

	Get(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileInput) (*model.User, error)
	List(ctx context.Context, limit, offset int) (*UserListResult, error)
	Update(ctx context.Context, id string, in AdminUpdateInput) (*model.User, error)

	// Delete removes a non-admin account. Returns ErrAdminDelete for admins and
	// ErrUserOwnsProducts while the account still owns products.
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, now: time.Now}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.Email != "" {
		u.Email = normalizeEmail(in.Email)
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	return s.save(ctx, u)
}

// List returns paginated users without exposing repository types.
func (s *userService) List(ctx context.Context, limit, offset int) (*UserListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) Update(ctx context.Context, id string, in AdminUpdateInput) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.Email != "" {
		u.Email = normalizeEmail(in.Email)
	}
	u.IsAdmin = in.IsAdmin
	return s.save(ctx, u)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin {
		return ErrAdminDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrUserOwnsProducts
		}
		return err
	}
	return nil
}

func (s *userService) save(ctx context.Context, u *model.User) (*model.User, error) {
	u.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}

func hashPassword(pw string) (string, error) {
	hash, err := auth.HashPassword(pw)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
