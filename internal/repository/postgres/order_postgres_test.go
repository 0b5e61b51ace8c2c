package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

var orderCols = []string{
	"id", "user_id", "name", "email", "shipping_address", "payment_method", "payment_result",
	"items_price", "tax_price", "shipping_price", "total_price", "status",
	"is_paid", "paid_at", "is_delivered", "delivered_at", "created_at", "updated_at",
}

var itemCols = []string{"order_id", "product_id", "name", "image", "quantity", "price"}

func orderRow(rows *sqlmock.Rows, id string, paid bool) *sqlmock.Rows {
	now := time.Now()
	var paidAt any
	var result any
	status := model.OrderStatusPending
	if paid {
		paidAt = now
		result = []byte(`{"id":"pay-1","status":"COMPLETED","update_time":"t","email_address":"a@b.c"}`)
		status = model.OrderStatusPaid
	}
	return rows.AddRow(id, "u1", "Alice", "alice@example.com",
		[]byte(`{"address":"1 Main St","city":"Tehran","postalCode":"12345"}`), "ZarinPal", result,
		"49.99", "7.50", "10.00", "67.49", status,
		paid, paidAt, false, nil, now, now)
}

func sampleOrder() *model.Order {
	now := time.Now().UTC()
	return &model.Order{
		ID:     "o1",
		UserID: "u1",
		OrderItems: []model.OrderItem{
			{ProductID: "p1", Name: "Phone", Image: "/p.jpg", Quantity: 2, Price: decimal.RequireFromString("20")},
			{ProductID: "p2", Name: "Case", Image: "/c.jpg", Quantity: 1, Price: decimal.RequireFromString("9.99")},
		},
		ShippingAddress: model.ShippingAddress{Address: "1 Main St", City: "Tehran", PostalCode: "12345"},
		PaymentMethod:   "ZarinPal",
		ItemsPrice:      decimal.RequireFromString("49.99"),
		TaxPrice:        decimal.RequireFromString("7.5"),
		ShippingPrice:   decimal.RequireFromString("10"),
		TotalPrice:      decimal.RequireFromString("67.49"),
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestOrderPostgres_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewOrderPostgres(db)
		o := sampleOrder()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").
			WithArgs(o.ID, o.UserID, sqlmock.AnyArg(), o.PaymentMethod, o.ItemsPrice, o.TaxPrice,
				o.ShippingPrice, o.TotalPrice, o.Status, o.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(o.ID, 0, "p1", "Phone", "/p.jpg", 2, o.OrderItems[0].Price).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(o.ID, 1, "p2", "Case", "/c.jpg", 1, o.OrderItems[1].Price).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		out, err := repo.Create(context.Background(), o)
		require.NoError(t, err)
		assert.Equal(t, "o1", out.ID)
		assert.Len(t, out.OrderItems, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("item failure rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewOrderPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		out, err := repo.Create(context.Background(), sampleOrder())
		assert.ErrorContains(t, err, "insert order item 0: fk violation")
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders o JOIN users u ON u.id = o.user_id WHERE o.id = ?").
			WithArgs("o1").
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), "o1", true))
		mock.ExpectQuery("SELECT (.+) FROM order_items WHERE order_id = ANY").
			WithArgs([]string{"o1"}).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow("o1", "p1", "Phone", "/p.jpg", 2, "20.00").
				AddRow("o1", "p2", "Case", "/c.jpg", 1, "9.99"))

		o, err := repo.FindByID(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", o.User.Name)
		assert.Equal(t, "Tehran", o.ShippingAddress.City)
		assert.True(t, o.IsPaid)
		require.NotNil(t, o.PaidAt)
		require.NotNil(t, o.PaymentResult)
		assert.Equal(t, "pay-1", o.PaymentResult.ID)
		assert.Nil(t, o.DeliveredAt)
		assert.Len(t, o.OrderItems, 2)
		assert.True(t, decimal.RequireFromString("67.49").Equal(o.TotalPrice))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		o, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, o)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPostgres_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM orders o JOIN users u (.+) WHERE o.user_id = ?").
		WithArgs("u1").
		WillReturnRows(orderRow(orderRow(sqlmock.NewRows(orderCols), "o1", false), "o2", true))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs([]string{"o1", "o2"}).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("o1", "p1", "Phone", "/p.jpg", 1, "20.00").
			AddRow("o2", "p2", "Case", "/c.jpg", 3, "9.99"))

	orders, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].OrderItems, 1)
	assert.Equal(t, 3, orders[1].OrderItems[0].Quantity)
	assert.Nil(t, orders[0].PaymentResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPostgres_ListByUserEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(orderCols))

	orders, err := repo.ListByUser(context.Background(), "u1")
	assert.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM orders o (.+) LIMIT").
		WithArgs(20, 0).
		WillReturnRows(orderRow(sqlmock.NewRows(orderCols), "o1", false))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs([]string{"o1"}).
		WillReturnRows(sqlmock.NewRows(itemCols))

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPostgres_UpdateStatus(t *testing.T) {
	t.Run("success reloads order", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewOrderPostgres(db)
		o := sampleOrder()
		o.MarkPaid(model.PaymentResult{ID: "pay-1", Status: "COMPLETED"}, time.Now())

		mock.ExpectExec("UPDATE orders").
			WithArgs(o.ID, model.OrderStatusPaid, sqlmock.AnyArg(), true, sqlmock.AnyArg(), false, sqlmock.AnyArg(), model.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM orders").
			WithArgs(o.ID).
			WillReturnRows(orderRow(sqlmock.NewRows(orderCols), o.ID, true))
		mock.ExpectQuery("SELECT (.+) FROM order_items").
			WithArgs([]string{o.ID}).
			WillReturnRows(sqlmock.NewRows(itemCols))

		out, err := repo.UpdateStatus(context.Background(), o, model.OrderStatusPending)
		require.NoError(t, err)
		assert.True(t, out.IsPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing order", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewOrderPostgres(db)

		mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		out, err := repo.UpdateStatus(context.Background(), sampleOrder(), model.OrderStatusPending)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved on concurrently", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewOrderPostgres(db)
		o := sampleOrder()
		o.MarkPaid(model.PaymentResult{ID: "pay-2"}, time.Now())

		mock.ExpectExec(`UPDATE orders .+ WHERE id = \$1 AND status = \$8`).
			WithArgs(o.ID, model.OrderStatusPaid, sqlmock.AnyArg(), true, sqlmock.AnyArg(), false, sqlmock.AnyArg(), model.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(o.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		out, err := repo.UpdateStatus(context.Background(), o, model.OrderStatusPending)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
