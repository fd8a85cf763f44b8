package orderservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/foodcart/internal/models"
	"go.uber.org/zap"
)

// SubmitOrder places the order. A store failure is returned both as an
// unsuccessful result and as an error; publishing the event is best effort.
func (s *Service) SubmitOrder(ctx context.Context, order *models.Order) (models.SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return models.SubmitResult{Error: err.Error()}, err
	}

	order.ID = s.newID()
	order.PlacedAt = s.now()
	order.Status = models.OrderStatusPlaced

	if s.store != nil {
		if err := s.store.Create(ctx, order); err != nil {
			s.logger.Error("failed to save order",
				zap.String("order_id", order.ID),
				zap.String("restaurant_id", order.RestaurantID),
				zap.Error(err))
			err = fmt.Errorf("save order: %w", err)
			return models.SubmitResult{Error: err.Error()}, err
		}
	}

	s.publish(order)

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("restaurant_id", order.RestaurantID),
		zap.String("order_type", string(order.OrderType)),
		zap.Float64("total", order.Total))

	return models.SubmitResult{Success: true, OrderID: order.ID}, nil
}

func (s *Service) publish(order *models.Order) {
	if s.publisher == nil {
		return
	}

	msg, err := json.Marshal(newOrderPlacedEvent(order))
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.publisher.WriteMessage(models.TopicOrderEvents, msg); err != nil {
		s.logger.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func newOrderPlacedEvent(order *models.Order) models.OrderPlacedEvent {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	return models.OrderPlacedEvent{
		EventType:     models.EventOrderPlaced,
		OrderID:       order.ID,
		RestaurantID:  order.RestaurantID,
		OrderType:     order.OrderType,
		ItemCount:     itemCount,
		LineCount:     len(order.Items),
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Total:         order.Total,
		TotalCents:    cents(order.Total),
		PaymentMethod: order.CustomerInfo.PaymentMethod,
		PlacedAt:      order.PlacedAt,
		Timestamp:     order.PlacedAt.Unix(),
	}
}
