package admincache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gerai-be/internal/changefeed"
	"gerai-be/internal/logger"
)

// Rule ties a set of watched tables to a cache key prefix. When any of
// the tables changes, the prefix is invalidated immediately and the
// optional refresh runs after the debounce window, so a burst of row
// changes triggers a single refetch.
type Rule struct {
	Prefix  string
	Tables  []string
	Refresh func(ctx context.Context)
}

type Refresher struct {
	feed     changefeed.Feed
	cache    *Cache
	debounce time.Duration

	mu     sync.Mutex
	rules  []Rule
	timers map[string]*time.Timer
}

func NewRefresher(feed changefeed.Feed, cache *Cache, debounce time.Duration) *Refresher {
	return &Refresher{
		feed:     feed,
		cache:    cache,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}
}

func (r *Refresher) AddRule(rule Rule) {
	r.mu.Lock()
	r.rules = append(r.rules, rule)
	r.mu.Unlock()
}

// Start subscribes to the feed and consumes it on a background
// goroutine until ctx is cancelled. Rules must be added before Start.
// The returned channel closes once the consumer has exited.
func (r *Refresher) Start(ctx context.Context) <-chan struct{} {
	r.mu.Lock()
	tableSet := map[string]struct{}{"*": {}}
	for _, rule := range r.rules {
		for _, table := range rule.Tables {
			tableSet[table] = struct{}{}
		}
	}
	r.mu.Unlock()

	tables := make([]string, 0, len(tableSet))
	for table := range tableSet {
		tables = append(tables, table)
	}

	sub := r.feed.Subscribe(tables...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				r.stopTimers()
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				r.handle(ctx, ev)
			}
		}
	}()
	return done
}

func (r *Refresher) handle(ctx context.Context, ev changefeed.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rules {
		rule := r.rules[i]
		if !rule.matches(ev.Table) {
			continue
		}
		r.cache.InvalidatePattern(rule.Prefix)
		logger.FromCtx(ctx).Debug("cache invalidated",
			zap.String("layer", "admincache"),
			zap.String("prefix", rule.Prefix),
			zap.String("table", ev.Table),
		)
		if rule.Refresh == nil {
			continue
		}
		if timer, ok := r.timers[rule.Prefix]; ok {
			timer.Stop()
		}
		r.timers[rule.Prefix] = time.AfterFunc(r.debounce, func() {
			rule.Refresh(ctx)
		})
	}
}

func (rule Rule) matches(table string) bool {
	// A reconnect event carries "*" and must refresh everything.
	if table == "*" {
		return true
	}
	for _, t := range rule.Tables {
		if t == table {
			return true
		}
	}
	return false
}

func (r *Refresher) stopTimers() {
	r.mu.Lock()
	for _, timer := range r.timers {
		timer.Stop()
	}
	r.mu.Unlock()
}
