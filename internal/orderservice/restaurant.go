package orderservice

import (
	"fmt"
	"math"

	"github.com/chrisdamba/foodcart/internal/models"
)

// IsRestaurantOpen checks the restaurant's status and its opening hours in the
// service clock's location. Windows may wrap past midnight.
func (s *Service) IsRestaurantOpen(restaurant *models.Restaurant) bool {
	if restaurant == nil || restaurant.Status == models.RestaurantStatusClosed {
		return false
	}
	open, closing := restaurant.OpeningHour, restaurant.ClosingHour
	if open == closing {
		return true
	}

	hour := s.now().Hour()
	if open < closing {
		return hour >= open && hour < closing
	}
	return hour >= open || hour < closing
}

// GetEstimatedDeliveryTime formats a ten minute window, e.g. "35-45 min".
func (s *Service) GetEstimatedDeliveryTime(restaurant *models.Restaurant, orderType models.OrderType) string {
	if restaurant == nil {
		return s.cfg.DefaultDeliveryEstimate
	}
	minutes := s.adjustPrepTime(restaurant)
	if orderType == models.OrderTypeDelivery {
		minutes += s.cfg.DeliveryTravelMinutes
	}
	low := int(math.Round(minutes))
	return fmt.Sprintf("%d-%d min", low, low+10)
}

// adjustPrepTime scales the average prep time by the kitchen's current load,
// up to 50% at full capacity.
func (s *Service) adjustPrepTime(restaurant *models.Restaurant) float64 {
	base := restaurant.AvgPrepTime
	if base <= 0 {
		base = s.cfg.DefaultPrepTime
	}

	loadFactor := 1.0
	if restaurant.Capacity > 0 {
		currentLoad := math.Min(float64(restaurant.CurrentOrders)/float64(restaurant.Capacity), 1)
		loadFactor += currentLoad * 0.5
	}

	return math.Max(base*loadFactor, restaurant.MinPrepTime)
}
