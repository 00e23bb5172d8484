package changefeed

import "context"

// Action is the row-level operation that produced an event.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event notifies subscribers that a row in Table changed. UserID is set
// for user-scoped tables (cart_items, favorites, orders) so consumers can
// filter events to the identity they care about.
type Event struct {
	Table  string `json:"table"`
	Action Action `json:"action"`
	RowID  string `json:"id"`
	UserID string `json:"user_id,omitempty"`
}

// Feed delivers change events for a set of tables. An empty table list
// subscribes to everything.
type Feed interface {
	Subscribe(tables ...string) *Subscription
}

// Subscription is one subscriber's view of the feed. Close unsubscribes;
// the channel is closed afterwards.
type Subscription struct {
	C <-chan Event

	cancel func()
}

func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Runner is a feed source with its own consume loop (the Postgres
// listener). Run blocks until ctx is cancelled.
type Runner interface {
	Run(ctx context.Context)
}
