package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var _ checkout.OrderService = (*Service)(nil)

func testConfig(t *testing.T) *models.Config {
	t.Helper()
	v := viper.New()
	models.SetDefaults(v)
	cfg, err := models.DecodeConfig(v)
	require.NoError(t, err)
	return cfg
}

func line(price float64, qty int, eligible bool) models.CartLineItem {
	return models.CartLineItem{ID: "l", CatalogItemID: "m", Name: "Dish", UnitPrice: price, Quantity: qty, DiscountEligible: eligible}
}

func TestCalculateOrderTotals(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.CartLineItem
		orderType models.OrderType
		want      models.OrderTotals
	}{
		{
			name:      "empty cart",
			orderType: models.OrderTypeDelivery,
			want:      models.OrderTotals{},
		},
		{
			name:      "standard delivery",
			items:     []models.CartLineItem{line(12.5, 2, false)},
			orderType: models.OrderTypeDelivery,
			want:      models.OrderTotals{Subtotal: 25, Tax: 2, DeliveryFee: 2.99, ServiceFee: 1.25, Total: 31.24},
		},
		{
			name:      "pickup has no delivery fee",
			items:     []models.CartLineItem{line(12.5, 2, false)},
			orderType: models.OrderTypePickup,
			want:      models.OrderTotals{Subtotal: 25, Tax: 2, ServiceFee: 1.25, Total: 28.25},
		},
		{
			name:      "small order surcharge",
			items:     []models.CartLineItem{line(4.5, 1, false)},
			orderType: models.OrderTypeDelivery,
			want:      models.OrderTotals{Subtotal: 4.5, Tax: 0.36, DeliveryFee: 4.49, ServiceFee: 0.23, Total: 9.58},
		},
		{
			name:      "free delivery and discount",
			items:     []models.CartLineItem{line(20, 3, true)},
			orderType: models.OrderTypeDelivery,
			want:      models.OrderTotals{Subtotal: 60, Tax: 4.8, ServiceFee: 3, Discount: 6, Total: 61.8},
		},
		{
			name:      "discount capped",
			items:     []models.CartLineItem{line(50, 3, true)},
			orderType: models.OrderTypeDelivery,
			want:      models.OrderTotals{Subtotal: 150, Tax: 12, ServiceFee: 7.5, Discount: 10, Total: 159.5},
		},
		{
			name:      "eligible subtotal below discount minimum",
			items:     []models.CartLineItem{line(10, 2, true), line(40, 1, false)},
			orderType: models.OrderTypeDelivery,
			want:      models.OrderTotals{Subtotal: 60, Tax: 4.8, ServiceFee: 3, Total: 67.8},
		},
	}

	svc := NewService(testConfig(t), zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CalculateOrderTotals(tt.items, tt.orderType))
		})
	}
}

func TestValidateOrder(t *testing.T) {
	cfg := testConfig(t)
	cfg.MinOrderAmount = 15
	svc := NewService(cfg, nil)

	valid := models.Order{
		Items:     []models.CartLineItem{line(10, 2, false)},
		Subtotal:  20,
		OrderType: models.OrderTypeDelivery,
		CustomerInfo: models.CustomerInfo{
			Name:    "Grace",
			Phone:   "020 7946 0000",
			Address: models.Address{Address1: "2 Mill Lane"},
		},
	}

	t.Run("valid", func(t *testing.T) {
		order := valid
		res := svc.ValidateOrder(&order)
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
	})

	t.Run("pickup needs no address", func(t *testing.T) {
		order := valid
		order.OrderType = models.OrderTypePickup
		order.CustomerInfo.Address = models.Address{}
		assert.True(t, svc.ValidateOrder(&order).IsValid)
	})

	t.Run("collects every error", func(t *testing.T) {
		order := models.Order{OrderType: models.OrderTypeDelivery, CustomerInfo: models.CustomerInfo{Name: "  "}}
		res := svc.ValidateOrder(&order)
		assert.False(t, res.IsValid)
		assert.Equal(t, []string{
			"Order must contain at least one item",
			"Customer name is required",
			"Customer phone is required",
			"Delivery address is required",
		}, res.Errors)
	})

	t.Run("bad quantity and order type", func(t *testing.T) {
		order := valid
		order.Items = []models.CartLineItem{line(10, 0, false), line(10, 2, false)}
		order.OrderType = "drone"
		res := svc.ValidateOrder(&order)
		assert.Equal(t, []string{"Invalid quantity for Dish", "Order type must be delivery or pickup"}, res.Errors)
	})

	t.Run("below minimum amount", func(t *testing.T) {
		order := valid
		order.Items = []models.CartLineItem{line(5, 1, false)}
		order.Subtotal = 5
		res := svc.ValidateOrder(&order)
		assert.Equal(t, []string{"Minimum order amount is 15.00"}, res.Errors)
	})
}

func at(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 1, hour, 30, 0, 0, time.UTC)
	}
}

func TestIsRestaurantOpen(t *testing.T) {
	tests := []struct {
		name       string
		restaurant *models.Restaurant
		hour       int
		want       bool
	}{
		{"nil restaurant", nil, 12, false},
		{"closed status", &models.Restaurant{Status: models.RestaurantStatusClosed}, 12, false},
		{"around the clock", &models.Restaurant{Status: models.RestaurantStatusOpen}, 3, true},
		{"inside day window", &models.Restaurant{OpeningHour: 11, ClosingHour: 22}, 11, true},
		{"at closing hour", &models.Restaurant{OpeningHour: 11, ClosingHour: 22}, 22, false},
		{"before opening", &models.Restaurant{OpeningHour: 11, ClosingHour: 22}, 9, false},
		{"overnight late", &models.Restaurant{OpeningHour: 18, ClosingHour: 2}, 23, true},
		{"overnight early", &models.Restaurant{OpeningHour: 18, ClosingHour: 2}, 1, true},
		{"overnight gap", &models.Restaurant{OpeningHour: 18, ClosingHour: 2}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(testConfig(t), nil, WithClock(at(tt.hour)))
			assert.Equal(t, tt.want, svc.IsRestaurantOpen(tt.restaurant))
		})
	}
}

func TestGetEstimatedDeliveryTime(t *testing.T) {
	svc := NewService(testConfig(t), nil)
	busy := &models.Restaurant{AvgPrepTime: 20, CurrentOrders: 5, Capacity: 10}

	assert.Equal(t, "40-50 min", svc.GetEstimatedDeliveryTime(busy, models.OrderTypeDelivery))
	assert.Equal(t, "25-35 min", svc.GetEstimatedDeliveryTime(busy, models.OrderTypePickup))

	slow := &models.Restaurant{AvgPrepTime: 20, MinPrepTime: 30, Capacity: 10}
	assert.Equal(t, "30-40 min", svc.GetEstimatedDeliveryTime(slow, models.OrderTypePickup))

	unknown := &models.Restaurant{}
	assert.Equal(t, "20-30 min", svc.GetEstimatedDeliveryTime(unknown, models.OrderTypePickup))

	assert.Equal(t, "30-45 min", svc.GetEstimatedDeliveryTime(nil, models.OrderTypeDelivery))
}

type fakeStore struct {
	orders []models.Order
	err    error
}

func (f *fakeStore) Create(ctx context.Context, order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, *order)
	return nil
}

type fakePublisher struct {
	topics   []string
	messages [][]byte
	err      error
}

func (f *fakePublisher) WriteMessage(topic string, msg []byte) error {
	f.topics = append(f.topics, topic)
	f.messages = append(f.messages, msg)
	return f.err
}

func placedOrder() *models.Order {
	return &models.Order{
		RestaurantID: "r1",
		Items:        []models.CartLineItem{line(10, 2, false), line(5, 1, false)},
		Subtotal:     25,
		Total:        31.24,
		OrderType:    models.OrderTypeDelivery,
		CustomerInfo: models.CustomerInfo{Name: "Grace", PaymentMethod: "card"},
	}
}

func TestSubmitOrder_PersistsAndPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewService(testConfig(t), zaptest.NewLogger(t),
		WithStore(store),
		WithPublisher(pub),
		WithClock(at(12)),
		WithIDGenerator(func() string { return "ord_1" }))

	order := placedOrder()
	res, err := svc.SubmitOrder(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, models.SubmitResult{Success: true, OrderID: "ord_1"}, res)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	require.Len(t, store.orders, 1)
	assert.Equal(t, "ord_1", store.orders[0].ID)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, models.TopicOrderEvents, pub.topics[0])
	var event models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(pub.messages[0], &event))
	assert.Equal(t, models.EventOrderPlaced, event.EventType)
	assert.Equal(t, "ord_1", event.OrderID)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, 2, event.LineCount)
	assert.Equal(t, int64(3124), event.TotalCents)
	assert.Equal(t, "card", event.PaymentMethod)
	assert.Equal(t, at(12)().Unix(), event.Timestamp)
}

func TestSubmitOrder_StoreFailure(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(testConfig(t), zaptest.NewLogger(t),
		WithStore(&fakeStore{err: errors.New("connection refused")}),
		WithPublisher(pub))

	res, err := svc.SubmitOrder(context.Background(), placedOrder())

	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "save order: connection refused", res.Error)
	assert.Empty(t, pub.messages)
}

func TestSubmitOrder_PublishFailureIsNotFatal(t *testing.T) {
	svc := NewService(testConfig(t), zaptest.NewLogger(t),
		WithPublisher(&fakePublisher{err: errors.New("broker down")}))

	res, err := svc.SubmitOrder(context.Background(), placedOrder())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.OrderID)
}

func TestSubmitOrder_CancelledContext(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(testConfig(t), nil, WithStore(store))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.SubmitOrder(ctx, placedOrder())

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.Success)
	assert.Empty(t, store.orders)
}

func TestService_DrivesCheckoutSession(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(testConfig(t), zaptest.NewLogger(t), WithStore(store), WithClock(at(12)))
	session := checkout.NewSession(svc, checkout.WithRestaurant(&models.Restaurant{ID: "r1", AvgPrepTime: 20, Capacity: 10}))

	_, err := session.AddItem(models.MenuItem{ID: "m1", Name: "Burger", Price: 12.5}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 31.24, session.CartTotal())
	assert.True(t, session.IsRestaurantOpen())
	assert.Equal(t, "35-45 min", session.EstimatedDeliveryTime())

	state := session.SubmitOrder(context.Background(), models.CustomerInfo{
		Name:    "Grace",
		Phone:   "020 7946 0000",
		Address: models.Address{Address1: "2 Mill Lane"},
	}, models.OrderTypeDelivery)

	assert.Equal(t, checkout.StatusSucceeded, state.Status)
	require.Len(t, store.orders, 1)
	assert.Equal(t, 31.24, store.orders[0].Total)
	assert.Equal(t, "35-45 min", store.orders[0].EstimatedDeliveryTime)
	assert.Zero(t, session.CartItemCount())
}
