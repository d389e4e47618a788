package sales

import (
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// EventKind names the operation an Event reports.
type EventKind string

const (
	EventSaleCommitted EventKind = "sale_committed"
	EventSaleDeleted   EventKind = "sale_deleted"
	EventCommitFailed  EventKind = "commit_failed"
)

// Event describes a finished engine operation. It is published after the
// transaction has committed or rolled back.
type Event struct {
	Kind    EventKind
	SaleID  string
	StaffID string
	Total   decimal.Decimal
	Items   int
	At      time.Time
	Err     error
}

// Listener receives events synchronously on the publishing goroutine.
type Listener func(Event)

// Notifier fans events out to subscribed listeners.
// Listeners run in subscription order.
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// NewNotifier returns a notifier without listeners.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers l and returns a function that removes it.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners = append(n.listeners, subscription{id: id, fn: l})
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.listeners = slices.DeleteFunc(n.listeners, func(s subscription) bool { return s.id == id })
	}
}

func (n *Notifier) publish(e Event) {
	n.mu.RLock()
	ls := slices.Clone(n.listeners)
	n.mu.RUnlock()
	for _, s := range ls {
		s.fn(e)
	}
}
