package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// requestError is a client error detected while reading a request.
type requestError struct {
	code    string
	message string
}

func (e *requestError) write(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, e.code, e.message)
}

// bindJSON parses the request body into dst and validates it.
func bindJSON(c *fiber.Ctx, dst any) *requestError {
	if err := c.BodyParser(dst); err != nil {
		return &requestError{"INVALID_BODY", "invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return &requestError{"VALIDATION_ERROR", validationMessage(err)}
	}
	return nil
}

// validationMessage renders validator errors as "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), rule))
	}
	return strings.Join(parts, "; ")
}

// paramID returns the :id route parameter if it is a UUID.
func paramID(c *fiber.Ctx) (string, *requestError) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", &requestError{"INVALID_ID", "invalid id format"}
	}
	return id, nil
}

// pageParams reads the limit and offset query parameters.
func pageParams(c *fiber.Ctx, defLimit int) (limit, offset int, rerr *requestError) {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defLimit)))
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, &requestError{"INVALID_LIMIT", "invalid limit"}
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, &requestError{"INVALID_OFFSET", "invalid offset"}
	}
	return limit, offset, nil
}
