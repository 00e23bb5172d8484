package order

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gerai-be/internal/cart"
	"gerai-be/internal/logger"
)

type Service interface {
	Checkout(ctx context.Context, userID string, input CreateOrderInput) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListOwn(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ChangeStatus(ctx context.Context, orderID string, next Status) (*Order, error)
}

type service struct {
	repo    Repository
	pricing cart.Pricing
}

func NewService(repo Repository, pricing cart.Pricing) Service {
	return &service{repo: repo, pricing: pricing}
}

func (s *service) Checkout(ctx context.Context, userID string, input CreateOrderInput) (*Order, error) {
	if userID == "" {
		return nil, cart.ErrUserNotAuthenticated
	}
	input.Address = strings.TrimSpace(input.Address)
	if input.Address == "" {
		return nil, ErrMissingAddress
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "cod"
	}

	o, err := s.repo.CreateFromCart(ctx, userID, input, s.pricing)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order created",
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("orderNumber", o.OrderNumber),
		zap.Int64("grandTotal", o.GrandTotal),
	)
	return o, nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetByOrderNumber(ctx, orderNumber)
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, cart.ErrUserNotAuthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ChangeStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(next) {
		logger.FromCtx(ctx).Warn("rejected status transition",
			zap.String("layer", "service"),
			zap.String("method", "ChangeStatus"),
			zap.String("orderID", orderID),
			zap.String("from", string(o.Status)),
			zap.String("to", string(next)),
		)
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	o.Status = next
	return o, nil
}
