// Package checkout ties a cart to an order service for one ordering screen:
// cart mutations, derived totals and the submit workflow.
package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chrisdamba/foodcart/internal/cart"
	"github.com/chrisdamba/foodcart/internal/lifecycle"
	"github.com/chrisdamba/foodcart/internal/models"
	"go.uber.org/zap"
)

const defaultDeliveryEstimate = "30-45 min"

// Session is safe for concurrent use. Cart mutations are serialized; the
// order service submit call runs without holding the session lock.
type Session struct {
	mu         sync.Mutex
	cart       *cart.Cart
	service    OrderService
	guard      *lifecycle.Guard
	logger     *zap.Logger
	restaurant *models.Restaurant
	orderType  models.OrderType
	submission SubmissionState

	onSubmitted      func(order models.Order, result models.SubmitResult)
	submitTimeout    time.Duration
	fallbackEstimate string
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithGuard shares a lifecycle guard owned by the caller.
func WithGuard(guard *lifecycle.Guard) Option {
	return func(s *Session) {
		s.guard = guard
	}
}

func WithCart(c *cart.Cart) Option {
	return func(s *Session) {
		s.cart = c
	}
}

func WithRestaurant(restaurant *models.Restaurant) Option {
	return func(s *Session) {
		s.restaurant = restaurant
	}
}

// WithOnSubmitted registers a callback fired after a successful submission has
// been committed and the cart cleared. It runs without any session lock held,
// so it may navigate away and tear the session down. It is skipped when the
// session was torn down before the result arrived.
func WithOnSubmitted(fn func(order models.Order, result models.SubmitResult)) Option {
	return func(s *Session) {
		s.onSubmitted = fn
	}
}

// WithSubmitTimeout bounds the order service submit call. Zero means no bound.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.submitTimeout = d
	}
}

// WithDeliveryEstimate sets the estimate shown before restaurant metadata loads.
func WithDeliveryEstimate(estimate string) Option {
	return func(s *Session) {
		s.fallbackEstimate = estimate
	}
}

func NewSession(service OrderService, opts ...Option) *Session {
	s := &Session{
		service:          service,
		orderType:        models.OrderTypeDelivery,
		submission:       SubmissionState{Status: StatusIdle},
		fallbackEstimate: defaultDeliveryEstimate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cart == nil {
		s.cart = cart.New()
	}
	if s.guard == nil {
		s.guard = lifecycle.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Session) AddItem(item models.MenuItem, quantity int, customizations []models.Customization) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.AddItem(item, quantity, customizations)
}

func (s *Session) UpdateQuantity(lineID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.UpdateQuantity(lineID, quantity)
}

func (s *Session) RemoveItem(lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.RemoveItem(lineID)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// SetRestaurant supplies restaurant metadata once it has been loaded.
func (s *Session) SetRestaurant(restaurant *models.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurant = restaurant
}

// SetOrderType selects the order type used for the derived totals.
func (s *Session) SetOrderType(orderType models.OrderType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderType = orderType
}

func (s *Session) OrderType() models.OrderType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderType
}

// Teardown detaches the session from its owner. Submissions still in flight
// complete against the order service but their results are discarded.
func (s *Session) Teardown() {
	s.guard.Teardown()
}

func (s *Session) Alive() bool {
	return s.guard.Alive()
}

// SubmitOrder runs one checkout attempt and blocks until it settles. Failures
// are reported through the returned state, never as an error. A call made
// while another attempt is in flight returns the current state and does not
// reach the order service.
func (s *Session) SubmitOrder(ctx context.Context, info models.CustomerInfo, orderType models.OrderType) SubmissionState {
	var (
		order   models.Order
		current SubmissionState
		begun   bool
	)
	// a teardown either precedes the attempt entirely or waits until it has begun
	alive := s.guard.Run(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.submission.InFlight() {
			current = s.submission
			return
		}
		s.submission = SubmissionState{Status: StatusSubmitting}
		order = s.buildOrderLocked(info, orderType)
		begun = true
	})
	if !alive {
		return s.Submission()
	}
	if !begun {
		s.logger.Debug("submission already in flight, ignoring")
		return current
	}

	validation := s.service.ValidateOrder(&order)
	if !validation.IsValid {
		reason := strings.Join(validation.Errors, ", ")
		if reason == "" {
			reason = defaultSubmitError
		}
		s.logger.Info("order validation failed",
			zap.String("restaurant_id", order.RestaurantID),
			zap.Strings("errors", validation.Errors))
		return s.settle(failed(reason), nil)
	}

	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	result, err := s.service.SubmitOrder(ctx, &order)
	if err != nil || !result.Success {
		reason := defaultSubmitError
		switch {
		case err != nil && err.Error() != "":
			reason = err.Error()
		case result.Error != "":
			reason = result.Error
		}
		s.logger.Warn("order submission failed",
			zap.String("restaurant_id", order.RestaurantID),
			zap.String("reason", reason),
			zap.Error(err))
		return s.settle(failed(reason), nil)
	}

	s.logger.Info("order submitted",
		zap.String("order_id", result.OrderID),
		zap.String("order_type", string(order.OrderType)),
		zap.Float64("total", order.Total))

	state := s.settle(SubmissionState{Status: StatusSucceeded, OrderID: result.OrderID}, s.cart.Clear)
	if s.onSubmitted != nil && s.guard.Alive() {
		s.onSubmitted(order, result)
	}
	return state
}

// settle commits the outcome of an attempt unless the session was torn down
// meanwhile. onCommit runs under the session lock.
func (s *Session) settle(state SubmissionState, onCommit func()) SubmissionState {
	applied := s.guard.Run(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.submission = state
		if onCommit != nil {
			onCommit()
		}
	})
	if !applied {
		s.logger.Debug("session torn down, discarding submission result",
			zap.String("status", string(state.Status)))
	}
	return state
}

func (s *Session) buildOrderLocked(info models.CustomerInfo, orderType models.OrderType) models.Order {
	items := s.cart.Items()
	totals := s.service.CalculateOrderTotals(items, orderType)
	order := models.Order{
		Items:        items,
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		DeliveryFee:  totals.DeliveryFee,
		ServiceFee:   totals.ServiceFee,
		Discount:     totals.Discount,
		Total:        totals.Total,
		CustomerInfo: info,
		OrderType:    orderType,
	}
	if s.restaurant != nil {
		order.RestaurantID = s.restaurant.ID
		order.EstimatedDeliveryTime = s.service.GetEstimatedDeliveryTime(s.restaurant, orderType)
	}
	return order
}
