package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerai-be/internal/cart"
)

var testPricing = cart.Pricing{DeliveryFee: 10000, FreeDeliveryThreshold: 100000}

func TestRepository_CreateFromCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT ci.product_id, ci.quantity, p.name, p.price").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "name", "price"}).
				AddRow("prod-1", 2, "Kopi Gayo", 25000).
				AddRow("prod-2", 1, "Gula Aren", 15000))
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(sqlmock.AnyArg(), "user-1", StatusPending,
				int64(65000), int64(10000), int64(0), int64(0), int64(75000),
				"Jl. Merdeka 1", "cod", PaymentUnpaid).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("order-1"))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs("order-1", "prod-1", "Kopi Gayo", int64(25000), 2, int64(50000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item-1"))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs("order-1", "prod-2", "Gula Aren", int64(15000), 1, int64(15000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item-2"))
		mock.ExpectExec("DELETE FROM cart_items").
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		o, err := repo.CreateFromCart(context.Background(), "user-1", CreateOrderInput{
			Address:       "Jl. Merdeka 1",
			PaymentMethod: "cod",
		}, testPricing)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, int64(65000), o.Subtotal)
		// Below the free-delivery threshold, so the fee applies.
		assert.Equal(t, int64(10000), o.DeliveryFee)
		assert.Equal(t, int64(0), o.Tax)
		assert.Equal(t, int64(0), o.Discount)
		assert.Equal(t, int64(75000), o.GrandTotal)
		assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
		assert.Len(t, o.Items, 2)
		assert.Regexp(t, `^GR-\d{8}-[0-9A-F]{6}$`, o.OrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FreeDeliveryAtThreshold", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT ci.product_id, ci.quantity, p.name, p.price").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "name", "price"}).
				AddRow("prod-1", 4, "Kopi Gayo", 25000))
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("order-1"))
		mock.ExpectQuery("INSERT INTO order_items").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("item-1"))
		mock.ExpectExec("DELETE FROM cart_items").
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		o, err := repo.CreateFromCart(context.Background(), "user-1", CreateOrderInput{Address: "Jl. Merdeka 1"}, testPricing)

		require.NoError(t, err)
		assert.Equal(t, int64(100000), o.Subtotal)
		assert.Equal(t, int64(0), o.DeliveryFee)
		assert.Equal(t, int64(100000), o.GrandTotal)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT ci.product_id, ci.quantity, p.name, p.price").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "name", "price"}))
		mock.ExpectRollback()

		_, err = repo.CreateFromCart(context.Background(), "user-1", CreateOrderInput{Address: "Jl. Merdeka 1"}, testPricing)

		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByOrderNumber(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		now := time.Now()

		mock.ExpectQuery("SELECT o.id, o.order_number").
			WithArgs("GR-20250114-ABCDEF").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_number", "user_id", "status",
				"subtotal", "delivery_fee", "tax", "discount", "grand_total",
				"address", "payment_method", "payment_status", "email",
				"created_at", "updated_at",
			}).AddRow("order-1", "GR-20250114-ABCDEF", "user-1", "pending",
				65000, 10000, 0, 0, 75000, "Jl. Merdeka 1", "cod", "unpaid", "tono@example.com", now, now))
		mock.ExpectQuery("SELECT id, order_id, product_id").
			WithArgs("order-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_id", "product_id", "product_name", "unit_price", "quantity", "subtotal",
			}).AddRow("item-1", "order-1", "prod-1", "Kopi Gayo", 25000, 2, 50000))

		o, err := repo.GetByOrderNumber(context.Background(), "GR-20250114-ABCDEF")

		require.NoError(t, err)
		assert.Equal(t, "tono@example.com", o.CustomerEmail)
		assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
		assert.Len(t, o.Items, 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery("SELECT o.id, o.order_number").
			WithArgs("GR-00000000-XXXXXX").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err = repo.GetByOrderNumber(context.Background(), "GR-00000000-XXXXXX")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectExec("UPDATE orders").
			WithArgs(StatusConfirmed, "order-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.UpdateStatus(context.Background(), "order-1", StatusConfirmed)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectExec("UPDATE orders").
			WithArgs(StatusConfirmed, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateStatus(context.Background(), "missing", StatusConfirmed)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
