package checkout

import (
	"context"

	"github.com/chrisdamba/foodcart/internal/models"
)

// OrderService supplies pricing, validation and submission. The session never
// does tax or fee math itself.
type OrderService interface {
	CalculateOrderTotals(items []models.CartLineItem, orderType models.OrderType) models.OrderTotals
	ValidateOrder(order *models.Order) models.ValidationResult
	SubmitOrder(ctx context.Context, order *models.Order) (models.SubmitResult, error)
	IsRestaurantOpen(restaurant *models.Restaurant) bool
	GetEstimatedDeliveryTime(restaurant *models.Restaurant, orderType models.OrderType) string
}
