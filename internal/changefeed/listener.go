package changefeed

import (
	"context"
	"encoding/json"
	"time"

	"gerai-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const notifyChannel = "gerai_changes"

// Listener bridges Postgres NOTIFY payloads into the hub. Row triggers
// publish a JSON body matching Event on the gerai_changes channel.
type Listener struct {
	pq  *pq.Listener
	hub *Hub
}

func NewListener(dsn string, hub *Hub) *Listener {
	l := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.L().Error("changefeed listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})

	return &Listener{pq: l, hub: hub}
}

// Run consumes notifications until ctx is cancelled. A nil notification
// from pq means the connection was re-established; subscribers reconcile
// via full refetch so no replay is attempted.
func (l *Listener) Run(ctx context.Context) {
	if err := l.pq.Listen(notifyChannel); err != nil {
		logger.L().Error("failed to LISTEN", zap.String("channel", notifyChannel), zap.Error(err))
		return
	}
	defer l.pq.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.pq.Notify:
			if n == nil {
				// reconnect; trigger a catch-all refresh
				l.hub.Publish(Event{Table: "*", Action: ActionUpdate})
				continue
			}

			var e Event
			if err := json.Unmarshal([]byte(n.Extra), &e); err != nil {
				logger.L().Warn("malformed change payload", zap.String("payload", n.Extra), zap.Error(err))
				continue
			}
			l.hub.Publish(e)
		case <-time.After(90 * time.Second):
			// liveness check per pq.Listener docs
			go func() {
				if err := l.pq.Ping(); err != nil {
					logger.L().Warn("changefeed ping failed", zap.Error(err))
				}
			}()
		}
	}
}
