package postgres

import (
	"context"
	"testing"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var menuItemRowColumns = []string{
	"id", "restaurant_id", "name", "description", "price", "prep_time", "category", "type",
	"popularity", "prep_complexity", "ingredients", "is_discount_eligible", "image_url", "options",
}

func TestMenuItemRepository_BulkCreate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectCopyFrom(pgx.Identifier{"menu_items"}, menuItemColumns).WillReturnResult(2)

	repo := NewMenuItemRepository(mock)
	err := repo.BulkCreate(context.Background(), []*models.MenuItem{
		{ID: "m1", RestaurantID: "r1", Name: "Pizza", Price: 10},
		{ID: "m2", RestaurantID: "r1", Name: "Cola", Price: 2.5},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuItemRepository_Create(t *testing.T) {
	mock := newMock(t)
	item := &models.MenuItem{
		ID: "m1", RestaurantID: "r1", Name: "Pizza", Price: 10,
		Options: []models.MenuOption{{ID: "size", Name: "Size", Required: true,
			Choices: []models.MenuChoice{{ID: "M", Name: "Medium"}, {ID: "L", Name: "Large", PriceDelta: 2}}}},
	}
	row, err := menuItemRow(item)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO menu_items").WithArgs(row...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewMenuItemRepository(mock)
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuItemRepository_GetByRestaurantID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("WHERE restaurant_id = \\$1").
		WithArgs("r1").
		WillReturnRows(pgxmock.NewRows(menuItemRowColumns).
			AddRow("m1", "r1", "Pizza", "", 10.0, 12.0, "Italian", "main course", 0.9, 1.2,
				[]string{"flour", "tomato"}, true, "",
				[]byte(`[{"id":"size","name":"Size","required":true,"choices":[{"id":"L","name":"Large","price_delta":2}]}]`)).
			AddRow("m2", "r1", "Cola", "", 2.5, 1.0, "Drinks", "drink", 0.4, 1.0,
				[]string{}, false, "", []byte(nil)))

	repo := NewMenuItemRepository(mock)
	items, err := repo.GetByRestaurantID(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	size := items[0].Option("size")
	require.NotNil(t, size)
	assert.True(t, size.Required)
	assert.Equal(t, 2.0, size.Choice("L").PriceDelta)
	assert.Empty(t, items[1].Options)
	assert.NoError(t, mock.ExpectationsWereMet())
}
