package orderservice

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/foodcart/internal/models"
)

// ValidateOrder collects every problem with the order rather than stopping at
// the first one.
func (s *Service) ValidateOrder(order *models.Order) models.ValidationResult {
	var errs []string

	if len(order.Items) == 0 {
		errs = append(errs, "Order must contain at least one item")
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Invalid quantity for %s", item.Name))
		}
	}
	if !order.OrderType.Valid() {
		errs = append(errs, "Order type must be delivery or pickup")
	}

	info := order.CustomerInfo
	if strings.TrimSpace(info.Name) == "" {
		errs = append(errs, "Customer name is required")
	}
	if strings.TrimSpace(info.Phone) == "" {
		errs = append(errs, "Customer phone is required")
	}
	if order.OrderType == models.OrderTypeDelivery && !hasAddress(info.Address) {
		errs = append(errs, "Delivery address is required")
	}

	if s.cfg.MinOrderAmount > 0 && len(order.Items) > 0 && order.Subtotal < s.cfg.MinOrderAmount {
		errs = append(errs, fmt.Sprintf("Minimum order amount is %.2f", s.cfg.MinOrderAmount))
	}

	return models.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func hasAddress(a models.Address) bool {
	return strings.TrimSpace(a.Address1) != "" || strings.TrimSpace(a.HouseNo) != ""
}
