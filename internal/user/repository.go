package user

import (
	"context"
	"database/sql"
	"errors"

	"gerai-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	SetWhatsAppEnabled(ctx context.Context, userID string, enabled bool) error
	AdminWhatsAppPhones(ctx context.Context) ([]string, error)
}

type repository struct {
	db *sql.DB
}

// NewRepository builds a profile repository. The privileged lookup
// endpoints hand this the elevated-credential pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const profileColumns = `id, email, full_name, phone, role, whatsapp_enabled, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Role, &p.WhatsAppEnabled,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.String("user_id", userID),
	)

	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1
	`, userID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("profile not found")
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (r *repository) ListProfiles(ctx context.Context) ([]*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProfiles"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		ORDER BY created_at DESC
	`)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Info("profiles listed", zap.Int("count", len(profiles)))
	return profiles, nil
}

func (r *repository) SetWhatsAppEnabled(ctx context.Context, userID string, enabled bool) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SetWhatsAppEnabled"),
		zap.String("user_id", userID),
		zap.Bool("enabled", enabled),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET whatsapp_enabled = $1, updated_at = NOW()
		WHERE id = $2
	`, enabled, userID)
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}

	log.Info("whatsapp opt-in updated")
	return nil
}

// AdminWhatsAppPhones returns normalized-enough phone numbers of admins
// who opted in to order notifications.
func (r *repository) AdminWhatsAppPhones(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT phone
		FROM profiles
		WHERE role IN ('admin', 'super_admin')
		  AND whatsapp_enabled = TRUE
		  AND phone IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phones := make([]string, 0)
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, err
		}
		phones = append(phones, phone)
	}
	return phones, rows.Err()
}
