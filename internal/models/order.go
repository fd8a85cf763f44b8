package models

import "time"

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup
}

type Order struct {
	ID                    string         `json:"id"`
	RestaurantID          string         `json:"restaurant_id"`
	Items                 []CartLineItem `json:"items"`
	Subtotal              float64        `json:"subtotal"`
	Tax                   float64        `json:"tax"`
	DeliveryFee           float64        `json:"delivery_fee"`
	ServiceFee            float64        `json:"service_fee"`
	Discount              float64        `json:"discount"`
	Total                 float64        `json:"total"`
	CustomerInfo          CustomerInfo   `json:"customer_info"`
	OrderType             OrderType      `json:"order_type"`
	Status                string         `json:"status"` // e.g., "placed", "preparing", "in_transit", "delivered", "cancelled"
	PlacedAt              time.Time      `json:"placed_at"`
	EstimatedDeliveryTime string         `json:"estimated_delivery_time,omitempty"`
}

// OrderTotals is derived from a cart and an order type; it is never stored.
type OrderTotals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	ServiceFee  float64 `json:"service_fee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

type SubmitResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type OrderMetrics struct {
	TotalOrders        int
	FailedOrders       int
	ValidationFailures int
	AbandonedSessions  int
	MergedAdds         int
	TotalRevenue       float64
	AvgOrderValue      float64
	AvgItemsPerOrder   float64
	OrdersByType       map[OrderType]int
	PopularItems       map[string]int // CatalogItemID -> units ordered
}
