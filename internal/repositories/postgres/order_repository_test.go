package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 5, 1, 12, 15, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:           "o1",
		RestaurantID: "r1",
		Items: []models.CartLineItem{
			{ID: "l1", CatalogItemID: "m1", Name: "Pizza", UnitPrice: 12, Quantity: 2,
				Customizations: []models.Customization{{OptionID: "size", ChoiceID: "L"}}},
			{ID: "l2", CatalogItemID: "m2", Name: "Cola", UnitPrice: 2.5, Quantity: 1},
		},
		Subtotal:              26.5,
		Tax:                   2.12,
		DeliveryFee:           2.99,
		ServiceFee:            1.33,
		Total:                 32.94,
		CustomerInfo:          models.CustomerInfo{Name: "Grace", Phone: "020 7946 0000"},
		OrderType:             models.OrderTypeDelivery,
		Status:                models.OrderStatusPlaced,
		PlacedAt:              placedAt,
		EstimatedDeliveryTime: "35-45 min",
	}
}

func expectOrderInsert(mock pgxmock.PgxPoolIface, order *models.Order) *pgxmock.ExpectedExec {
	return mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.RestaurantID, "delivery", order.Status,
			order.Subtotal, order.Tax, order.DeliveryFee, order.ServiceFee, order.Discount, order.Total,
			pgxmock.AnyArg(), order.EstimatedDeliveryTime, order.PlacedAt)
}

func TestOrderRepository_Create(t *testing.T) {
	mock := newMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"order_items"}, orderItemColumns).WillReturnResult(2)
	mock.ExpectCommit()

	repo := NewOrderRepository(mock)
	require.NoError(t, repo.Create(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateRollsBack(t *testing.T) {
	mock := newMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"order_items"}, orderItemColumns).WillReturnError(errors.New("check constraint violated"))
	mock.ExpectRollback()

	repo := NewOrderRepository(mock)
	err := repo.Create(context.Background(), order)
	require.Error(t, err)
	assert.ErrorContains(t, err, "copy order items for o1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateRetriesSerializationFailure(t *testing.T) {
	defer func(d time.Duration) { retryBackoff = d }(retryBackoff)
	retryBackoff = time.Millisecond

	mock := newMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"order_items"}, orderItemColumns).WillReturnResult(2)
	mock.ExpectCommit()

	repo := NewOrderRepository(mock)
	require.NoError(t, repo.Create(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateDoesNotRetryOtherErrors(t *testing.T) {
	mock := newMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	repo := NewOrderRepository(mock)
	err := repo.Create(context.Background(), order)
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23505", pgErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var orderRowColumns = []string{
	"id", "restaurant_id", "order_type", "status", "subtotal", "tax", "delivery_fee",
	"service_fee", "discount", "total", "customer_info", "estimated_delivery_time", "placed_at",
}

func TestOrderRepository_GetByID(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("FROM orders WHERE id = \\$1").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows(orderRowColumns).AddRow(
			"o1", "r1", "pickup", "placed", 26.5, 2.12, 0.0, 1.33, 0.0, 29.95,
			[]byte(`{"name":"Grace","phone":"020 7946 0000"}`), "20-30 min", placedAt))
	mock.ExpectQuery("FROM order_items").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"line_id", "menu_item_id", "name", "unit_price", "quantity", "customizations"}).
			AddRow("l1", "m1", "Pizza", 12.0, 2, []byte(`[{"option_id":"size","choice_id":"L","price_delta":0}]`)).
			AddRow("l2", "m2", "Cola", 2.5, 1, []byte(`[]`)))

	repo := NewOrderRepository(mock)
	order, err := repo.GetByID(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderTypePickup, order.OrderType)
	assert.Equal(t, 29.95, order.Total)
	assert.Equal(t, "Grace", order.CustomerInfo.Name)
	require.Len(t, order.Items, 2)
	assert.Equal(t, []models.Customization{{OptionID: "size", ChoiceID: "L"}}, order.Items[0].Customizations)
	assert.Empty(t, order.Items[1].Customizations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM orders WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	repo := NewOrderRepository(mock)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderRepository_ListByRestaurant(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("WHERE restaurant_id = \\$1").
		WithArgs("r1", 10).
		WillReturnRows(pgxmock.NewRows(orderRowColumns).
			AddRow("o2", "r1", "delivery", "placed", 10.0, 0.8, 2.99, 0.5, 0.0, 14.29, []byte(`{}`), "", placedAt.Add(time.Hour)).
			AddRow("o1", "r1", "pickup", "placed", 20.0, 1.6, 0.0, 1.0, 0.0, 22.6, []byte(`{}`), "", placedAt))

	repo := NewOrderRepository(mock)
	orders, err := repo.ListByRestaurant(context.Background(), "r1", 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Nil(t, orders[0].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CountAndDeleteAll(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM orders").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("TRUNCATE TABLE orders CASCADE").WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	repo := NewOrderRepository(mock)
	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
