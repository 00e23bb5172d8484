package cart

import (
	"context"
	"database/sql"
	"time"

	"gerai-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetCartRows(ctx context.Context, userID string) ([]Item, error)
	UpsertItem(ctx context.Context, userID, productID string, quantity int) (*Item, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	ToggleFavorite(ctx context.Context, userID, productID string) (bool, error)
	GetFavorites(ctx context.Context, userID string) ([]FavoriteProduct, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCartRows(ctx context.Context, userID string) ([]Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartRows"),
		zap.String("user_id", userID),
	)

	start := time.Now()

	query := `
	SELECT
		ci.id,
		ci.user_id,
		ci.product_id,
		ci.quantity,
		ci.created_at,
		ci.updated_at,

		p.name,
		p.price,
		p.image_url,
		p.is_active,
		COALESCE(c.slug, '')
	FROM cart_items ci
	JOIN products p ON ci.product_id = p.id
	LEFT JOIN categories c ON p.category_id = c.id
	WHERE ci.user_id = $1
	ORDER BY ci.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Product.Name,
			&item.Product.Price,
			&item.Product.ImageURL,
			&item.Product.IsActive,
			&item.Product.CategorySlug,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("cart fetched",
		zap.Int("rows", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return items, nil
}

// UpsertItem inserts the line or adds to its quantity in one statement,
// so two rapid adds of the same product produce one row with the summed
// quantity.
func (r *repository) UpsertItem(ctx context.Context, userID, productID string, quantity int) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.String("user_id", userID),
		zap.String("product_id", productID),
	)

	query := `
	INSERT INTO cart_items (user_id, product_id, quantity)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, product_id)
	DO UPDATE SET
		quantity = cart_items.quantity + EXCLUDED.quantity,
		updated_at = NOW()
	RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`

	var item Item
	err := r.db.QueryRowContext(ctx, query, userID, productID, quantity).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item upserted",
		zap.String("cart_item_id", item.ID),
		zap.Int("quantity", item.Quantity),
	)
	return &item, nil
}

func (r *repository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// setting a quantity on an absent line adds it
		_, err = r.UpsertItem(ctx, userID, productID, quantity)
		return err
	}
	return nil
}

// Remove is idempotent: deleting an absent line is a no-op.
func (r *repository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	return err
}

func (r *repository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1
	`, userID)
	return err
}

// ToggleFavorite flips the favorite in a single round trip per branch:
// a conditional delete, then an insert only when nothing was deleted.
// ON CONFLICT DO NOTHING absorbs the duplicate-insert race between two
// rapid toggles. Returns the resulting state.
func (r *repository) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ToggleFavorite"),
		zap.String("user_id", userID),
		zap.String("product_id", productID),
	)

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		log.Error("favorite delete failed", zap.Error(err))
		return false, err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		log.Info("favorite removed")
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, userID, productID)
	if err != nil {
		log.Error("favorite insert failed", zap.Error(err))
		return false, err
	}

	log.Info("favorite added")
	return true, nil
}

func (r *repository) GetFavorites(ctx context.Context, userID string) ([]FavoriteProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.product_id, p.name, p.price, p.image_url, p.is_active
		FROM favorites f
		JOIN products p ON f.product_id = p.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]FavoriteProduct, 0)
	for rows.Next() {
		var f FavoriteProduct
		if err := rows.Scan(&f.ProductID, &f.Name, &f.Price, &f.ImageURL, &f.IsActive); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}
