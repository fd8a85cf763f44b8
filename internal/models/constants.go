package models

const (
	OrderStatusPlaced    = "placed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready_for_pickup"
	OrderStatusPickedUp  = "picked_up"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	RestaurantStatusOpen   = "open"
	RestaurantStatusClosed = "closed"

	EventOrderPlaced = "order_placed"

	TopicOrderEvents = "order_events"
)
