package user

import (
	"context"

	"gerai-be/internal/logger"

	"go.uber.org/zap"
)

// Service is the role-checking layer over the elevated-credential
// repository. Every privileged endpoint goes through RequireAdmin or
// RequireSuperAdmin rather than trusting the token's role claim.
type Service interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	ListUsers(ctx context.Context) ([]*Profile, error)
	RequireAdmin(ctx context.Context, userID string) (*Profile, error)
	RequireSuperAdmin(ctx context.Context, userID string) (*Profile, error)
	SetWhatsAppEnabled(ctx context.Context, userID string, enabled bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) ListUsers(ctx context.Context) ([]*Profile, error) {
	return s.repo.ListProfiles(ctx)
}

func (s *service) RequireAdmin(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		logger.FromCtx(ctx).Warn("admin access denied",
			zap.String("user_id", userID),
			zap.String("role", string(p.Role)),
		)
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) RequireSuperAdmin(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Role != RoleSuperAdmin {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) SetWhatsAppEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.repo.SetWhatsAppEnabled(ctx, userID, enabled)
}
