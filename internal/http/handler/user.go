package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/http/middleware"
	"shopapi/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
}

type adminUserRequest struct {
	Name    string `json:"name" validate:"omitempty,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	IsAdmin bool   `json:"isAdmin"`
}

// RegisterUser godoc
// @Summary Register a new account
// @Description Creates the account and starts a session (jwt cookie).
// @Tags users
// @Accept json
// @Produce json
// @Param body body registerRequest true "Account"
// @Success 201 {object} model.User
// @Failure 400 {object} errorPayload
// @Router /api/user [post]
func RegisterUser(users service.UserService, sess Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		u, err := users.Register(c.UserContext(), service.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := sess.start(c, u.ID); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// LoginUser godoc
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Router /api/user/login [post]
func LoginUser(users service.UserService, sess Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		u, err := users.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := sess.start(c, u.ID); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// LogoutUser godoc
// @Summary Log out
// @Description Clears the session cookie.
// @Tags users
// @Produce json
// @Success 200 {object} messageResponse
// @Router /api/user/logout [post]
func LogoutUser(sess Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess.end(c)
		return c.JSON(messageResponse{Message: "logged out successfully"})
	}
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Router /api/user/profile [get]
func GetProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c))
	}
}

// UpdateProfile godoc
// @Summary Update current user's profile
// @Description Empty fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param body body profileRequest true "Changes"
// @Success 200 {object} model.User
// @Failure 400 {object} errorPayload
// @Router /api/user/profile [put]
func UpdateProfile(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		u, err := users.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, service.ProfileInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.UserListResult
// @Failure 400 {object} errorPayload
// @Router /api/user [get]
func ListUsers(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, rerr := pageParams(c, 20)
		if rerr != nil {
			return rerr.write(c)
		}
		res, err := users.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errorPayload
// @Router /api/user/{id} [get]
func GetUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		u, err := users.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateUser godoc
// @Summary Update a user
// @Description Empty name/email are left unchanged; isAdmin is always written.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body adminUserRequest true "Changes"
// @Success 200 {object} model.User
// @Failure 404 {object} errorPayload
// @Router /api/user/{id} [put]
func UpdateUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		var req adminUserRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		u, err := users.Update(c.UserContext(), id, service.AdminUpdateInput{
			Name:    req.Name,
			Email:   req.Email,
			IsAdmin: req.IsAdmin,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Admin accounts cannot be deleted.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/user/{id} [delete]
func DeleteUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		if err := users.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "user deleted"})
	}
}
