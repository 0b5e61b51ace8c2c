package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shopapi/internal/model"
	"shopapi/internal/service"
	serviceMocks "shopapi/internal/service/mocks"
)

func validOrderBody(productID string) map[string]any {
	return map[string]any{
		"orderItems": []map[string]any{
			{"_id": productID, "qty": 2, "name": "Phone", "price": 0.01},
		},
		"shippingAddress": map[string]string{
			"address": "1 Main St", "city": "Tehran", "postalCode": "12345", "country": "IR",
		},
		"paymentMethod": "PayPal",
	}
}

func TestCreateOrder(t *testing.T) {
	buyer := &model.User{ID: "u1"}
	mockSvc := new(serviceMocks.MockOrderService)
	app := newTestApp(buyer)
	app.Post("/api/order", CreateOrder(mockSvc))

	t.Run("success ignores client price", func(t *testing.T) {
		pid := uuid.New().String()
		want := service.CreateOrderInput{
			Items:           []service.OrderItemInput{{ProductID: pid, Quantity: 2}},
			ShippingAddress: model.ShippingAddress{Address: "1 Main St", City: "Tehran", PostalCode: "12345", Country: "IR"},
			PaymentMethod:   "PayPal",
		}
		mockSvc.On("Create", mock.Anything, "u1", want).Return(&model.Order{
			ID:         "o1",
			TotalPrice: decimal.RequireFromString("68.99"),
			Status:     model.OrderStatusPending,
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/order", validOrderBody(pid)))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "o1", body["_id"])
		assert.Equal(t, "pending", body["status"])
	})

	t.Run("empty items", func(t *testing.T) {
		body := validOrderBody(uuid.New().String())
		body["orderItems"] = []map[string]any{}

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/order", body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "NO_ORDER_ITEMS", decodeError(t, resp).Error.Code)
	})

	t.Run("missing address", func(t *testing.T) {
		body := validOrderBody(uuid.New().String())
		delete(body, "shippingAddress")

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/order", body))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		pid := uuid.New().String()
		mockSvc.On("Create", mock.Anything, "u1", mock.Anything).
			Return(nil, fmt.Errorf("%w: %s", service.ErrUnknownProduct, pid)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/order", validOrderBody(pid)))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "UNKNOWN_PRODUCT", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestListOrders(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := newTestApp(&model.User{ID: "admin", IsAdmin: true})
	app.Get("/api/order", ListOrders(mockSvc))

	mockSvc.On("List", mock.Anything, 50, 0).Return(&service.OrderListResult{
		Items: []model.Order{{ID: "o1", User: &model.UserSummary{ID: "u1", Name: "Ada"}}},
		Total: 1,
	}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodGet, "/api/order", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res service.OrderListResult
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "Ada", res.Items[0].User.Name)
	mockSvc.AssertExpectations(t)
}

func TestMyOrders(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := newTestApp(&model.User{ID: "u1"})
	app.Get("/api/order/myorders", MyOrders(mockSvc))

	mockSvc.On("Mine", mock.Anything, "u1").Return([]model.Order{}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodGet, "/api/order/myorders", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res []model.Order
	json.NewDecoder(resp.Body).Decode(&res)
	assert.NotNil(t, res)
	mockSvc.AssertExpectations(t)
}

func TestGetOrder(t *testing.T) {
	caller := &model.User{ID: "u1"}
	mockSvc := new(serviceMocks.MockOrderService)
	app := newTestApp(caller)
	app.Get("/api/order/:id", GetOrder(mockSvc))

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "owner", wantStatus: http.StatusOK},
		{name: "stranger", svcErr: service.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "not found", svcErr: service.ErrOrderNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New().String()
			if tt.svcErr != nil {
				mockSvc.On("Get", mock.Anything, id, caller).Return(nil, tt.svcErr).Once()
			} else {
				mockSvc.On("Get", mock.Anything, id, caller).Return(&model.Order{ID: id}, nil).Once()
			}

			resp, _ := app.Test(jsonRequest(http.MethodGet, "/api/order/"+id, nil))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
	mockSvc.AssertExpectations(t)
}

func TestPayOrder(t *testing.T) {
	caller := &model.User{ID: "u1"}
	mockSvc := new(serviceMocks.MockOrderService)
	app := newTestApp(caller)
	app.Put("/api/order/:id/pay", PayOrder(mockSvc))

	body := map[string]any{
		"id":          "PAY-1",
		"status":      "COMPLETED",
		"update_time": "2024-05-01T12:00:00Z",
		"payer":       map[string]string{"email_address": "payer@example.com"},
	}

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		want := model.PaymentResult{ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2024-05-01T12:00:00Z", EmailAddress: "payer@example.com"}
		mockSvc.On("Pay", mock.Anything, id, caller, want).Return(&model.Order{ID: id, IsPaid: true}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/order/"+id+"/pay", body))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("already paid", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Pay", mock.Anything, id, caller, mock.Anything).Return(nil, service.ErrAlreadyPaid).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/order/"+id+"/pay", body))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_PAID", decodeError(t, resp).Error.Code)
	})

	t.Run("missing payment id", func(t *testing.T) {
		id := uuid.New().String()
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/order/"+id+"/pay", map[string]any{"status": "COMPLETED"}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
	mockSvc.AssertExpectations(t)
}

func TestDeliverOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := newTestApp(&model.User{ID: "admin", IsAdmin: true})
	app.Put("/api/order/:id/status", DeliverOrder(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Deliver", mock.Anything, id).
			Return(&model.Order{ID: id, IsDelivered: true, Status: model.OrderStatusDelivered}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/order/"+id+"/status", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unpaid", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Deliver", mock.Anything, id).Return(nil, service.ErrNotDeliverable).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/order/"+id+"/status", nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "NOT_DELIVERABLE", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}
