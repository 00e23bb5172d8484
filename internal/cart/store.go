package cart

import (
	"context"
	"sync"

	"gerai-be/internal/changefeed"
	"gerai-be/internal/logger"

	"go.uber.org/zap"
)

// Store keeps the signed-in user's cart and favorites in memory, joined
// with product data, and refreshes on change-feed events scoped to that
// user. Mutations go through the service and are not applied
// optimistically; the feed-triggered refetch is the source of truth.
type Store struct {
	svc  Service
	feed changefeed.Feed

	mu        sync.Mutex
	userID    string
	items     []Item
	favorites []FavoriteProduct
	totals    Totals
	loading   bool
}

func NewStore(svc Service, feed changefeed.Feed) *Store {
	return &Store{svc: svc, feed: feed, loading: true}
}

// SetUser switches the store to a new identity and refetches. An empty
// id empties the store (signed out).
func (s *Store) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	if userID == "" {
		s.mu.Lock()
		s.items = nil
		s.favorites = nil
		s.totals = Totals{}
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.Refresh(ctx)
}

// Run consumes cart/favorites change events until ctx is cancelled.
// Events for other users are ignored; product changes refresh too since
// cart lines join live product data.
func (s *Store) Run(ctx context.Context) {
	sub := s.feed.Subscribe("cart_items", "favorites", "products", "*")
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}

			s.mu.Lock()
			userID := s.userID
			s.mu.Unlock()

			if userID == "" {
				continue
			}
			if ev.UserID != "" && ev.UserID != userID {
				continue
			}
			s.Refresh(ctx)
		}
	}
}

// Refresh refetches cart rows and favorites. On failure the previous
// snapshot stays; the caller keeps last-known-good data.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	userID := s.userID
	s.loading = true
	s.mu.Unlock()

	if userID == "" {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return
	}

	log := logger.FromCtx(ctx).With(zap.String("store", "cart"), zap.String("user_id", userID))

	items, totals, err := s.svc.GetCart(ctx, userID)
	if err != nil {
		log.Error("cart refresh failed", zap.Error(err))
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return
	}

	favorites, err := s.svc.GetFavorites(ctx, userID)
	if err != nil {
		log.Error("favorites refresh failed", zap.Error(err))
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.items = items
	s.favorites = favorites
	s.totals = totals
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) Favorites() []FavoriteProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FavoriteProduct(nil), s.favorites...)
}

func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
