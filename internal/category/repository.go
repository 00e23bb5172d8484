package category

import (
	"context"
	"database/sql"
	"errors"

	"gerai-be/internal/logger"
	"gerai-be/internal/utils"

	"go.uber.org/zap"
)

var ErrCategoryNotFound = errors.New("category not found")

type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, input NewCategoryInput) (*Category, error)
	SetActive(ctx context.Context, categoryID string, active bool) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const categoryColumns = `id, name, slug, color, sort_order, is_active, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*Category, error) {
	var c Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Color, &c.SortOrder, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT ` + categoryColumns + ` FROM categories`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE slug = $1
	`, slug)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, input NewCategoryInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("name", input.Name),
	)

	slug := utils.Slugify(input.Name)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, color, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns+`
	`, input.Name, slug, input.Color, input.SortOrder)

	c, err := scanCategory(row)
	if err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	log.Info("category created", zap.String("category_id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

func (r *repository) SetActive(ctx context.Context, categoryID string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`, active, categoryID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
