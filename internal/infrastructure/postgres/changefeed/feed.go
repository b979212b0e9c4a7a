package changefeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Event is a "something changed, re-read" cue. It never carries row values.
// Events are at-least-once and may arrive out of order.
type Event struct {
	Table      string `json:"table"`
	Op         string `json:"op"`
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	// Resync is set after the connection was re-established: notifications
	// may have been lost, so every subscriber must re-read.
	Resync bool `json:"-"`
}

// Field returns the identifier stored under a column name, used for filtering.
func (e Event) Field(column string) string {
	switch column {
	case "id":
		return e.ID
	case "order_id":
		return e.OrderID
	case "customer_id":
		return e.CustomerID
	}
	return ""
}

// Filter is a set of column = value conditions; all must hold.
type Filter map[string]string

func (f Filter) matches(e Event) bool {
	for column, value := range f {
		if e.Field(column) != value {
			return false
		}
	}
	return true
}

// Handler is invoked on the feed's dispatch goroutine and must not block.
type Handler func(Event)

type subscription struct {
	table   string
	filter  Filter
	handler Handler
}

type Feed struct {
	mu     sync.RWMutex
	subs   map[uint64]subscription
	nextID uint64
	logger *slog.Logger
}

func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{subs: make(map[uint64]subscription), logger: logger}
}

// Subscribe registers handler for changes on table matching filter. The
// returned function removes the subscription and is safe to call twice.
func (f *Feed) Subscribe(table string, filter Filter, handler Handler) (unsubscribe func()) {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.subs[id] = subscription{table: table, filter: filter, handler: handler}
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

func (f *Feed) Publish(ev Event) {
	for _, s := range f.snapshot() {
		if ev.Resync || (s.table == ev.Table && s.filter.matches(ev)) {
			s.handler(ev)
		}
	}
}

// Dispatch decodes a pg_notify payload and publishes it.
func (f *Feed) Dispatch(payload string) error {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("decode change payload: %w", err)
	}
	if ev.Table == "" {
		return fmt.Errorf("decode change payload: missing table")
	}
	f.Publish(ev)
	return nil
}

func (f *Feed) Resync() {
	f.Publish(Event{Resync: true})
}

func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func (f *Feed) snapshot() []subscription {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]subscription, 0, len(f.subs))
	for _, s := range f.subs {
		out = append(out, s)
	}
	return out
}
