package sales

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service provides the sale engine operations on a Storage backend: commit,
// reversal and the read side.
type Service struct {
	storage   Storage
	validator *StockValidator
	logger    *zap.Logger
	notifier  *Notifier
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of sale dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier shares an existing notifier instead of creating one.
func WithNotifier(n *Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	s := &Service{
		storage:   storage,
		validator: NewStockValidator(storage),
		logger:    logger,
		notifier:  NewNotifier(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for completed operations.
func (s *Service) Subscribe(l Listener) (unsubscribe func()) {
	return s.notifier.Subscribe(l)
}

// GetProduct reads a product from the catalog, for callers building carts.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.storage.GetProduct(ctx, id)
}

// CheckAvailable reports whether requested units of productID are in stock now.
func (s *Service) CheckAvailable(ctx context.Context, productID string, requested int) error {
	return s.validator.CheckAvailable(ctx, productID, requested)
}
