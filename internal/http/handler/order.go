package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/http/middleware"
	"shopapi/internal/model"
	"shopapi/internal/service"
)

// orderItemRequest mirrors a cart line: the product id and quantity.
// Any name/price sent by the client is ignored.
type orderItemRequest struct {
	ProductID string `json:"_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

type shippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
}

type payOrderRequest struct {
	ID         string `json:"id" validate:"required"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address" validate:"omitempty,email"`
	} `json:"payer"`
}

// CreateOrder godoc
// @Summary Place an order
// @Description Prices are computed from the catalog; client prices are ignored.
// @Tags orders
// @Accept json
// @Produce json
// @Param body body createOrderRequest true "Order"
// @Success 201 {object} model.Order
// @Failure 400 {object} errorPayload
// @Router /api/order [post]
func CreateOrder(orders service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createOrderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(req.OrderItems) == 0 {
			return writeServiceError(c, service.ErrNoOrderItems)
		}
		if err := validate.Struct(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		items := make([]service.OrderItemInput, 0, len(req.OrderItems))
		for _, it := range req.OrderItems {
			items = append(items, service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Qty})
		}
		o, err := orders.Create(c.UserContext(), middleware.CurrentUser(c).ID, service.CreateOrderInput{
			Items: items,
			ShippingAddress: model.ShippingAddress{
				Address:    req.ShippingAddress.Address,
				City:       req.ShippingAddress.City,
				PostalCode: req.ShippingAddress.PostalCode,
				Country:    req.ShippingAddress.Country,
			},
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// ListOrders godoc
// @Summary List all orders
// @Tags orders
// @Produce json
// @Param limit query int false "Page size (1-100)" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.OrderListResult
// @Router /api/order [get]
func ListOrders(orders service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, rerr := pageParams(c, 50)
		if rerr != nil {
			return rerr.write(c)
		}
		res, err := orders.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// MyOrders godoc
// @Summary Current user's orders
// @Tags orders
// @Produce json
// @Success 200 {array} model.Order
// @Router /api/order/myorders [get]
func MyOrders(orders service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := orders.Mine(c.UserContext(), middleware.CurrentUser(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetOrder godoc
// @Summary Get an order
// @Description Only the owner or an admin may read an order.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/order/{id} [get]
func GetOrder(orders service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		o, err := orders.Get(c.UserContext(), id, middleware.CurrentUser(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// PayOrder godoc
// @Summary Mark an order paid
// @Description Records the payment provider's result reported by the client.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body payOrderRequest true "Payment result"
// @Success 200 {object} model.Order
// @Failure 409 {object} errorPayload
// @Router /api/order/{id}/pay [put]
func PayOrder(orders service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		var req payOrderRequest
		if rerr := bindJSON(c, &req); rerr != nil {
			return rerr.write(c)
		}
		o, err := orders.Pay(c.UserContext(), id, middleware.CurrentUser(c), model.PaymentResult{
			ID:           req.ID,
			Status:       req.Status,
			UpdateTime:   req.UpdateTime,
			EmailAddress: req.Payer.EmailAddress,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// DeliverOrder godoc
// @Summary Mark an order delivered
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 409 {object} errorPayload
// @Router /api/order/{id}/status [put]
func DeliverOrder(orders service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, rerr := paramID(c)
		if rerr != nil {
			return rerr.write(c)
		}
		o, err := orders.Deliver(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}
