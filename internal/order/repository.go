package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gerai-be/internal/cart"
)

type Repository interface {
	CreateFromCart(ctx context.Context, userID string, input CreateOrderInput, pricing cart.Pricing) (*Order, error)
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// newOrderNumber builds a human-readable reference like GR-20250114-3F9A2C.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("GR-%s-%s", now.Format("20060102"), suffix)
}

func (r *repository) CreateFromCart(
	ctx context.Context,
	userID string,
	input CreateOrderInput,
	pricing cart.Pricing,
) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Read the cart with current product prices. Unit prices are
	// snapshotted into order_items so later catalog edits cannot
	// rewrite past orders.
	rows, err := tx.QueryContext(ctx, `
		SELECT ci.product_id, ci.quantity, p.name, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND p.is_active = true
		ORDER BY ci.created_at ASC
		FOR UPDATE OF ci
	`, userID)
	if err != nil {
		return nil, err
	}

	var items []Item
	var subtotal int64
	var itemCount int
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.ProductName, &it.UnitPrice); err != nil {
			rows.Close()
			return nil, err
		}
		it.Subtotal = it.UnitPrice * int64(it.Quantity)
		subtotal += it.Subtotal
		itemCount += it.Quantity
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals := cart.Totals{ItemCount: itemCount, Subtotal: subtotal}
	totals.DeliveryFee = pricing.FeeFor(subtotal)
	totals.GrandTotal = subtotal + totals.DeliveryFee

	// 2. Insert the order header. Tax and discount are zero at checkout;
	// the columns exist so later adjustments keep grand_total =
	// subtotal + delivery_fee + tax - discount.
	now := time.Now()
	order := &Order{
		OrderNumber:   newOrderNumber(now),
		UserID:        userID,
		Status:        StatusPending,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Tax:           0,
		Discount:      0,
		GrandTotal:    totals.GrandTotal,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: PaymentUnpaid,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, status,
			subtotal, delivery_fee, tax, discount, grand_total,
			address, payment_method, payment_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		order.OrderNumber,
		order.UserID,
		order.Status,
		order.Subtotal,
		order.DeliveryFee,
		order.Tax,
		order.Discount,
		order.GrandTotal,
		order.Address,
		order.PaymentMethod,
		order.PaymentStatus,
	).Scan(&order.ID)
	if err != nil {
		return nil, err
	}

	// 3. Insert the item snapshots.
	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name,
				unit_price, quantity, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			it.OrderID,
			it.ProductID,
			it.ProductName,
			it.UnitPrice,
			it.Quantity,
			it.Subtotal,
		).Scan(&it.ID)
		if err != nil {
			return nil, err
		}
	}

	// 4. Empty the cart.
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

const orderSelect = `
	SELECT o.id, o.order_number, o.user_id, o.status,
	       o.subtotal, o.delivery_fee, o.tax, o.discount, o.grand_total,
	       o.address, o.payment_method, o.payment_status,
	       COALESCE(pr.email, ''),
	       o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN profiles pr ON pr.id = o.user_id
`

func (r *repository) scanOrder(row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status,
		&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Discount, &o.GrandTotal,
		&o.Address, &o.PaymentMethod, &o.PaymentStatus,
		&o.CustomerEmail,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, orderID))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.order_number = $1`, orderNumber))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.Status,
			&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Discount, &o.GrandTotal,
			&o.Address, &o.PaymentMethod, &o.PaymentStatus,
			&o.CustomerEmail,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY o.created_at DESC`)
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
