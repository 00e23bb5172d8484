package session

import (
	"context"
	"sync"

	"gerai-be/internal/logger"
	"gerai-be/internal/user"

	"go.uber.org/zap"
)

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Identity is the authenticated principal as reported by the platform.
type Identity struct {
	ID    string
	Email string
}

// Event is an identity-change notification from the auth push channel.
type Event struct {
	Type     EventType
	Identity *Identity
}

// ProfileFetcher loads the profile backing an identity.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
}

// TokenStore is the persisted session artifact: restored once at
// startup, cleared on sign-out.
type TokenStore interface {
	Load() (*Identity, error)
	Clear() error
}

// State is an immutable snapshot of the session.
type State struct {
	Identity *Identity
	Profile  *user.Profile
	Loading  bool
}

func (s State) IsAuthenticated() bool {
	return s.Identity != nil
}

// IsAdmin fails closed: no profile, or a profile whose role is anything
// but admin/super_admin, is not an admin.
func (s State) IsAdmin() bool {
	return s.Profile.IsAdmin()
}

// Store holds the current identity and its profile, kept current by the
// auth event channel. All reads go through Snapshot.
type Store struct {
	fetcher ProfileFetcher
	tokens  TokenStore
	events  <-chan Event

	mu        sync.Mutex
	state     State
	observers map[int]func(State)
	nextObs   int

	// onReset is invoked after SignOut once local state is cleared, the
	// server-side analogue of forcing a full reload.
	onReset func()
}

type Option func(*Store)

func WithResetHook(fn func()) Option {
	return func(s *Store) { s.onReset = fn }
}

func NewStore(fetcher ProfileFetcher, tokens TokenStore, events <-chan Event, opts ...Option) *Store {
	s := &Store{
		fetcher:   fetcher,
		tokens:    tokens,
		events:    events,
		state:     State{Loading: true},
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run restores the persisted session, then consumes identity-change
// events until ctx is cancelled or the event channel closes.
func (s *Store) Run(ctx context.Context) {
	s.restore(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *Store) restore(ctx context.Context) {
	identity, err := s.tokens.Load()
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to restore session", zap.Error(err))
	}

	var profile *user.Profile
	if identity != nil {
		profile = s.fetchProfile(ctx, identity.ID)
	}

	s.setState(State{Identity: identity, Profile: profile, Loading: false})
}

func (s *Store) handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventSignedOut:
		s.setState(State{Loading: false})
	case EventSignedIn, EventTokenRefreshed:
		if ev.Identity == nil {
			logger.FromCtx(ctx).Warn("auth event without identity", zap.String("type", string(ev.Type)))
			return
		}
		profile := s.fetchProfile(ctx, ev.Identity.ID)
		s.setState(State{Identity: ev.Identity, Profile: profile, Loading: false})
	}
}

// fetchProfile returns nil on failure so permission checks fail closed.
func (s *Store) fetchProfile(ctx context.Context, userID string) *user.Profile {
	profile, err := s.fetcher.GetProfile(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("profile fetch failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return profile
}

// SignOut clears in-memory state and the persisted session artifact,
// then fires the reset hook.
func (s *Store) SignOut(ctx context.Context) {
	if err := s.tokens.Clear(); err != nil {
		logger.FromCtx(ctx).Error("failed to clear persisted session", zap.Error(err))
	}

	s.setState(State{Loading: false})

	if s.onReset != nil {
		s.onReset()
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnChange registers an observer called with every new snapshot. The
// returned function unsubscribes.
func (s *Store) OnChange(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) setState(next State) {
	s.mu.Lock()
	s.state = next
	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
}
