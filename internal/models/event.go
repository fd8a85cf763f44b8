package models

import "time"

// OrderPlacedEvent is published once an order has been persisted.
type OrderPlacedEvent struct {
	EventType     string    `json:"event_type"`
	OrderID       string    `json:"order_id"`
	RestaurantID  string    `json:"restaurant_id"`
	OrderType     OrderType `json:"order_type"`
	ItemCount     int       `json:"item_count"`
	LineCount     int       `json:"line_count"`
	Subtotal      float64   `json:"subtotal"`
	Discount      float64   `json:"discount"`
	Total         float64   `json:"total"`
	TotalCents    int64     `json:"total_cents"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	PlacedAt      time.Time `json:"placed_at"`
	Timestamp     int64     `json:"timestamp"`
}
