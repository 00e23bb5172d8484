package admin

import (
	"context"
	"database/sql"
)

// Repository runs the dashboard aggregates. It is backed by the
// elevated pool since the counts span every user's rows.
type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, status string) (int64, error)
	Revenue(ctx context.Context) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM profiles`)
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE is_active = true`)
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders`)
}

func (r *repository) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, status)
}

func (r *repository) Revenue(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COALESCE(SUM(grand_total), 0) FROM orders WHERE status <> 'cancelled'`)
}
