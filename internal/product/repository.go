package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gerai-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, productID string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productSelect = `
	SELECT
		p.id, p.name, p.description, p.price, p.stock, p.image_url,
		p.is_active, p.category_id,
		COALESCE(c.name, ''), COALESCE(c.slug, ''),
		p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL,
		&p.IsActive, &p.CategoryID, &p.CategoryName, &p.CategorySlug,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Bool("only_active", onlyActive),
	)

	query := productSelect
	if onlyActive {
		query += ` WHERE p.is_active = TRUE`
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, productID string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("name", input.Name),
	)

	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, image_url, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, input.Name, input.Description, input.Price, input.Stock, input.ImageURL, input.CategoryID).Scan(&id)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", id))
	return r.GetByID(ctx, id)
}

func (r *repository) Update(ctx context.Context, productID string, input UpdateProductInput) (*Product, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.Price != nil {
		add("price", *input.Price)
	}
	if input.Stock != nil {
		add("stock", *input.Stock)
	}
	if input.ImageURL != nil {
		add("image_url", *input.ImageURL)
	}
	if input.IsActive != nil {
		add("is_active", *input.IsActive)
	}
	if input.CategoryID != nil {
		add("category_id", *input.CategoryID)
	}

	if len(set) == 0 {
		return nil, ErrEmptyUpdate
	}

	args = append(args, productID)
	query := `
		UPDATE products
		SET ` + strings.Join(set, ", ") + `, updated_at = NOW()
		WHERE id = $` + fmt.Sprint(len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, productID)
}

func (r *repository) Delete(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
