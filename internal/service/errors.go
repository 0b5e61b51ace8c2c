package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes; wrapped errors keep the sentinel reachable through errors.Is.
var (
	ErrIDRequired         = errors.New("id is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminDelete        = errors.New("admin users cannot be deleted")
	ErrUserOwnsProducts   = errors.New("user still owns products")
	ErrAlreadyReviewed    = errors.New("product already reviewed")
	ErrForbidden          = errors.New("not allowed to access this resource")
	ErrNoOrderItems       = errors.New("no order items")
	ErrUnknownProduct     = errors.New("order references an unknown product")
	ErrOutOfStock         = errors.New("not enough stock for product")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrNotDeliverable     = errors.New("order must be paid and not yet delivered")
	ErrReaderNil          = errors.New("reader is nil")
	ErrNotImage           = errors.New("only image uploads are allowed")
	ErrFileTooLarge       = errors.New("file is too large")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)
