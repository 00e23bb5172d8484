package cart

import (
	"context"

	"gerai-be/internal/logger"
	"gerai-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts and favorites.
type Service interface {
	GetCart(ctx context.Context, userID string) ([]Item, Totals, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	ToggleFavorite(ctx context.Context, userID, productID string) (bool, error)
	GetFavorites(ctx context.Context, userID string) ([]FavoriteProduct, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
	pricing     Pricing
}

func NewService(repo Repository, productRepo product.Repository, pricing Pricing) Service {
	return &service{repo: repo, productRepo: productRepo, pricing: pricing}
}

func (s *service) GetCart(ctx context.Context, userID string) ([]Item, Totals, error) {
	if userID == "" {
		return nil, Totals{}, ErrUserNotAuthenticated
	}

	items, err := s.repo.GetCartRows(ctx, userID)
	if err != nil {
		return nil, Totals{}, err
	}

	return items, ComputeTotals(items, s.pricing), nil
}

// AddToCart adds a product to a user's cart. Guest attempts (no user id)
// are a logged no-op; guest carts are not persisted server-side.
func (s *service) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.String("product_id", productID),
	)

	if userID == "" {
		log.Info("guest add-to-cart ignored")
		return nil
	}
	if productID == "" {
		return ErrMissingProduct
	}
	if quantity <= 0 {
		quantity = 1
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return ErrProductNotFound
	}
	if !p.IsActive {
		return ErrProductUnavailable
	}

	_, err = s.repo.UpsertItem(ctx, userID, productID, quantity)
	return err
}

// UpdateQuantity sets the line's quantity; zero or negative removes it.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if userID == "" {
		return ErrUserNotAuthenticated
	}
	if productID == "" {
		return ErrMissingProduct
	}

	if quantity <= 0 {
		return s.repo.Remove(ctx, userID, productID)
	}

	return s.repo.SetQuantity(ctx, userID, productID, quantity)
}

func (s *service) RemoveFromCart(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return ErrUserNotAuthenticated
	}
	if productID == "" {
		return ErrMissingProduct
	}
	return s.repo.Remove(ctx, userID, productID)
}

func (s *service) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUserNotAuthenticated
	}
	return s.repo.Clear(ctx, userID)
}

func (s *service) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ToggleFavorite"),
		zap.String("product_id", productID),
	)

	if userID == "" {
		log.Info("guest toggle-favorite ignored")
		return false, nil
	}
	if productID == "" {
		return false, ErrMissingProduct
	}

	return s.repo.ToggleFavorite(ctx, userID, productID)
}

func (s *service) GetFavorites(ctx context.Context, userID string) ([]FavoriteProduct, error) {
	if userID == "" {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetFavorites(ctx, userID)
}
