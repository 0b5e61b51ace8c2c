package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/http/middleware"
	"shopapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messageResponse is the body of endpoints that only confirm an action.
type messageResponse struct {
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceErrors maps service sentinels to their HTTP representation.
// The sentinel's own message is safe to show to clients.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrProductNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrOrderNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrEmailTaken, fiber.StatusBadRequest, "EMAIL_TAKEN"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrAdminDelete, fiber.StatusBadRequest, "ADMIN_DELETE"},
	{service.ErrUserOwnsProducts, fiber.StatusBadRequest, "USER_OWNS_PRODUCTS"},
	{service.ErrAlreadyReviewed, fiber.StatusBadRequest, "ALREADY_REVIEWED"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{service.ErrNoOrderItems, fiber.StatusBadRequest, "NO_ORDER_ITEMS"},
	{service.ErrUnknownProduct, fiber.StatusBadRequest, "UNKNOWN_PRODUCT"},
	{service.ErrOutOfStock, fiber.StatusBadRequest, "OUT_OF_STOCK"},
	{service.ErrInvalidQuantity, fiber.StatusBadRequest, "VALIDATION_ERROR"},
	{service.ErrAlreadyPaid, fiber.StatusConflict, "ALREADY_PAID"},
	{service.ErrNotDeliverable, fiber.StatusConflict, "NOT_DELIVERABLE"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "FILE_REQUIRED"},
	{service.ErrNotImage, fiber.StatusBadRequest, "INVALID_FILE_TYPE"},
	{service.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
	{service.ErrNegativePrice, fiber.StatusBadRequest, "VALIDATION_ERROR"},
	{service.ErrInvalidRating, fiber.StatusBadRequest, "VALIDATION_ERROR"},
	{service.ErrPasswordTooLong, fiber.StatusBadRequest, "VALIDATION_ERROR"},
}

// writeServiceError translates an error returned by a service. Unknown errors
// become 500 INTERNAL_ERROR.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.err.Error())
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", err.Error())
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", err.Error())
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
