package cart

import (
	"context"
	"errors"
	"testing"

	"gerai-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCartRows(ctx context.Context, userID string) ([]Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockRepository) UpsertItem(ctx context.Context, userID, productID string, quantity int) (*Item, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockRepository) Remove(ctx context.Context, userID, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockRepository) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRepository) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetFavorites(ctx context.Context, userID string) ([]FavoriteProduct, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FavoriteProduct), args.Error(1)
}

// MockProductRepository is a mock for the product repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, onlyActive bool) ([]product.Product, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, productID string) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, productID string, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, productID, input)
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func newTestService(repo Repository, productRepo product.Repository) Service {
	return NewService(repo, productRepo, testPricing)
}

func TestService_AddToCart(t *testing.T) {
	t.Run("Guest is a logged no-op", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := newTestService(repo, productRepo)

		err := svc.AddToCart(context.Background(), "", "p-1", 1)
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpsertItem")
	})

	t.Run("Defaults quantity to one", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, "p-1").
			Return(&product.Product{ID: "p-1", IsActive: true}, nil)
		repo.On("UpsertItem", mock.Anything, "u-1", "p-1", 1).
			Return(&Item{ID: "ci-1", Quantity: 1}, nil)

		svc := newTestService(repo, productRepo)
		assert.NoError(t, svc.AddToCart(context.Background(), "u-1", "p-1", 0))
		repo.AssertExpectations(t)
	})

	t.Run("Inactive product rejected", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, "p-1").
			Return(&product.Product{ID: "p-1", IsActive: false}, nil)

		svc := newTestService(repo, productRepo)
		err := svc.AddToCart(context.Background(), "u-1", "p-1", 1)
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("Unknown product rejected", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, "p-404").
			Return(nil, product.ErrProductNotFound)

		svc := newTestService(repo, productRepo)
		err := svc.AddToCart(context.Background(), "u-1", "p-404", 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	t.Run("Zero removes the line", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Remove", mock.Anything, "u-1", "p-1").Return(nil)

		svc := newTestService(repo, new(MockProductRepository))
		assert.NoError(t, svc.UpdateQuantity(context.Background(), "u-1", "p-1", 0))
		repo.AssertCalled(t, "Remove", mock.Anything, "u-1", "p-1")
		repo.AssertNotCalled(t, "SetQuantity")
	})

	t.Run("Negative removes the line", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Remove", mock.Anything, "u-1", "p-1").Return(nil)

		svc := newTestService(repo, new(MockProductRepository))
		assert.NoError(t, svc.UpdateQuantity(context.Background(), "u-1", "p-1", -3))
	})

	t.Run("Removing an absent line is a no-op", func(t *testing.T) {
		repo := new(MockRepository)
		// repository Remove swallows zero-rows-affected
		repo.On("Remove", mock.Anything, "u-1", "p-404").Return(nil)

		svc := newTestService(repo, new(MockProductRepository))
		assert.NoError(t, svc.UpdateQuantity(context.Background(), "u-1", "p-404", -1))
	})

	t.Run("Positive sets the quantity", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("SetQuantity", mock.Anything, "u-1", "p-1", 4).Return(nil)

		svc := newTestService(repo, new(MockProductRepository))
		assert.NoError(t, svc.UpdateQuantity(context.Background(), "u-1", "p-1", 4))
	})

	t.Run("Guest rejected", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockProductRepository))
		err := svc.UpdateQuantity(context.Background(), "", "p-1", 2)
		assert.ErrorIs(t, err, ErrUserNotAuthenticated)
	})
}

func TestService_GetCart(t *testing.T) {
	t.Run("Returns items with derived totals", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetCartRows", mock.Anything, "u-1").Return([]Item{
			{ID: "ci-1", Quantity: 2, Product: ProductSnapshot{Price: 5000}},
			{ID: "ci-2", Quantity: 1, Product: ProductSnapshot{Price: 12000}},
		}, nil)

		svc := newTestService(repo, new(MockProductRepository))
		cartItems, totals, err := svc.GetCart(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Len(t, cartItems, 2)
		assert.Equal(t, 3, totals.ItemCount)
		assert.Equal(t, int64(22000), totals.Subtotal)
		assert.Equal(t, testPricing.DeliveryFee, totals.DeliveryFee)
	})

	t.Run("Repository error propagates", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetCartRows", mock.Anything, "u-1").Return(nil, errors.New("db error"))

		svc := newTestService(repo, new(MockProductRepository))
		_, _, err := svc.GetCart(context.Background(), "u-1")
		assert.Error(t, err)
	})
}

func TestService_ToggleFavorite(t *testing.T) {
	t.Run("Guest is a logged no-op", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepository))

		favorited, err := svc.ToggleFavorite(context.Background(), "", "p-1")
		assert.NoError(t, err)
		assert.False(t, favorited)
		repo.AssertNotCalled(t, "ToggleFavorite")
	})

	t.Run("Delegates to repository", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ToggleFavorite", mock.Anything, "u-1", "p-1").Return(true, nil)

		svc := newTestService(repo, new(MockProductRepository))
		favorited, err := svc.ToggleFavorite(context.Background(), "u-1", "p-1")
		require.NoError(t, err)
		assert.True(t, favorited)
	})
}
