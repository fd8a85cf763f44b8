package checkout

import "github.com/chrisdamba/foodcart/internal/models"

// Cart returns a copy of the current lines in cart order.
func (s *Session) Cart() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) CartItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Totals prices the current cart for the session's order type.
func (s *Session) Totals() models.OrderTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.CalculateOrderTotals(s.cart.Items(), s.orderType)
}

func (s *Session) CartTotal() float64 {
	return s.Totals().Total
}

// IsRestaurantOpen reports true until restaurant metadata is available.
func (s *Session) IsRestaurantOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restaurant == nil {
		return true
	}
	return s.service.IsRestaurantOpen(s.restaurant)
}

func (s *Session) EstimatedDeliveryTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restaurant == nil {
		return s.fallbackEstimate
	}
	return s.service.GetEstimatedDeliveryTime(s.restaurant, s.orderType)
}

// CanCheckout is the gate for entering checkout: a non-empty cart and no
// submission in flight.
func (s *Session) CanCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount() > 0 && !s.submission.InFlight()
}

func (s *Session) Submission() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submission
}
