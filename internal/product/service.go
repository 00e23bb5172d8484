package product

import "context"

type Service interface {
	List(ctx context.Context, onlyActive bool) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, productID string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, onlyActive bool) ([]Product, error) {
	return s.repo.List(ctx, onlyActive)
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	return s.repo.Create(ctx, input)
}

func (s *service) Update(ctx context.Context, productID string, input UpdateProductInput) (*Product, error) {
	if !input.HasAnyField() {
		return nil, ErrEmptyUpdate
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	return s.repo.Update(ctx, productID, input)
}

func (s *service) Delete(ctx context.Context, productID string) error {
	return s.repo.Delete(ctx, productID)
}
