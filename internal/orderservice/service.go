// Package orderservice is the production order service behind a checkout
// session. It prices carts, validates orders, decides whether a restaurant is
// taking orders and places orders through a repository and an event output.
package orderservice

import (
	"context"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

// OrderStore persists placed orders.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
}

// Publisher receives order events. output.Destination satisfies it.
type Publisher interface {
	WriteMessage(topic string, msg []byte) error
}

type Service struct {
	cfg       *models.Config
	logger    *zap.Logger
	store     OrderStore
	publisher Publisher
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

func WithStore(store OrderStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithClock replaces time.Now for opening hours and order timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func NewService(cfg *models.Config, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  cuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
