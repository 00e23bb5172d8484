package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"gerai-be/internal/changefeed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockService mocks the cart Service for store tests.
type MockService struct {
	mock.Mock
}

func (m *MockService) GetCart(ctx context.Context, userID string) ([]Item, Totals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, Totals{}, args.Error(2)
	}
	return args.Get(0).([]Item), args.Get(1).(Totals), args.Error(2)
}

func (m *MockService) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockService) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockService) ClearCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockService) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) GetFavorites(ctx context.Context, userID string) ([]FavoriteProduct, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FavoriteProduct), args.Error(1)
}

func waitForItems(t *testing.T, store *Store, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(store.Items()) == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d items, have %d", n, len(store.Items()))
}

func TestStore_SetUserRefreshes(t *testing.T) {
	svc := new(MockService)
	svc.On("GetCart", mock.Anything, "u-1").Return(
		[]Item{{ID: "ci-1", Quantity: 2, Product: ProductSnapshot{Price: 5000}}},
		Totals{ItemCount: 2, Subtotal: 10000, DeliveryFee: 10000, GrandTotal: 20000},
		nil,
	)
	svc.On("GetFavorites", mock.Anything, "u-1").Return([]FavoriteProduct{{ProductID: "p-9"}}, nil)

	store := NewStore(svc, changefeed.NewHub())
	store.SetUser(context.Background(), "u-1")

	assert.Len(t, store.Items(), 1)
	assert.Len(t, store.Favorites(), 1)
	assert.Equal(t, int64(20000), store.Totals().GrandTotal)
	assert.False(t, store.Loading())
}

func TestStore_SignOutEmptiesSnapshot(t *testing.T) {
	svc := new(MockService)
	svc.On("GetCart", mock.Anything, "u-1").Return([]Item{{ID: "ci-1"}}, Totals{ItemCount: 1}, nil)
	svc.On("GetFavorites", mock.Anything, "u-1").Return([]FavoriteProduct{}, nil)

	store := NewStore(svc, changefeed.NewHub())
	store.SetUser(context.Background(), "u-1")
	require.Len(t, store.Items(), 1)

	store.SetUser(context.Background(), "")

	assert.Empty(t, store.Items())
	assert.Equal(t, Totals{}, store.Totals())
}

func TestStore_RefreshFailureKeepsPriorState(t *testing.T) {
	svc := new(MockService)
	svc.On("GetCart", mock.Anything, "u-1").
		Return([]Item{{ID: "ci-1"}}, Totals{ItemCount: 1}, nil).Once()
	svc.On("GetFavorites", mock.Anything, "u-1").Return([]FavoriteProduct{}, nil).Once()
	svc.On("GetCart", mock.Anything, "u-1").Return(nil, Totals{}, errors.New("network down"))

	store := NewStore(svc, changefeed.NewHub())
	store.SetUser(context.Background(), "u-1")
	require.Len(t, store.Items(), 1)

	store.Refresh(context.Background())

	assert.Len(t, store.Items(), 1, "failed refresh must not blank the snapshot")
	assert.False(t, store.Loading())
}

func TestStore_UserScopedEventTriggersRefetch(t *testing.T) {
	svc := new(MockService)
	svc.On("GetCart", mock.Anything, "u-1").
		Return([]Item{}, Totals{}, nil).Once()
	svc.On("GetFavorites", mock.Anything, "u-1").Return([]FavoriteProduct{}, nil)
	svc.On("GetCart", mock.Anything, "u-1").
		Return([]Item{{ID: "ci-1", Quantity: 1}}, Totals{ItemCount: 1}, nil)

	hub := changefeed.NewHub()
	store := NewStore(svc, hub)
	store.SetUser(context.Background(), "u-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	// event for another user is ignored
	hub.Publish(changefeed.Event{Table: "cart_items", Action: changefeed.ActionInsert, UserID: "someone-else"})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, store.Items())

	// event for our user triggers the refetch
	hub.Publish(changefeed.Event{Table: "cart_items", Action: changefeed.ActionInsert, UserID: "u-1"})
	waitForItems(t, store, 1)
}
