package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5"
)

var menuItemColumns = []string{
	"id", "restaurant_id", "name", "description", "price",
	"prep_time", "category", "type", "popularity",
	"prep_complexity", "ingredients", "is_discount_eligible",
	"image_url", "options",
}

const selectMenuItem = `
    SELECT
        id, restaurant_id, name, description, price, prep_time, category, type,
        popularity, prep_complexity, ingredients, is_discount_eligible, image_url, options
    FROM menu_items`

type MenuItemRepository struct {
	db DB
}

func NewMenuItemRepository(db DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

func menuItemRow(item *models.MenuItem) ([]interface{}, error) {
	options, err := json.Marshal(item.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options for %s: %w", item.ID, err)
	}
	return []interface{}{
		item.ID,
		item.RestaurantID,
		item.Name,
		item.Description,
		item.Price,
		item.PrepTime,
		item.Category,
		item.Type,
		item.Popularity,
		item.PrepComplexity,
		item.Ingredients,
		item.IsDiscountEligible,
		item.ImageURL,
		options,
	}, nil
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	_, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		menuItemColumns,
		pgx.CopyFromSlice(len(menuItems), func(i int) ([]interface{}, error) {
			return menuItemRow(menuItems[i])
		}),
	)
	return err
}

func (r *MenuItemRepository) Create(ctx context.Context, menuItem *models.MenuItem) error {
	row, err := menuItemRow(menuItem)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO menu_items (
            id, restaurant_id, name, description, price, prep_time,
            category, type, popularity, prep_complexity, ingredients,
            is_discount_eligible, image_url, options
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
        )`, row...)
	return err
}

func (r *MenuItemRepository) GetAll(ctx context.Context) (map[string]*models.MenuItem, error) {
	items, err := r.query(ctx, selectMenuItem)
	if err != nil {
		return nil, err
	}
	menuItems := make(map[string]*models.MenuItem, len(items))
	for _, item := range items {
		menuItems[item.ID] = item
	}
	return menuItems, nil
}

func (r *MenuItemRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error) {
	return r.query(ctx, selectMenuItem+` WHERE restaurant_id = $1 ORDER BY popularity DESC`, restaurantID)
}

func (r *MenuItemRepository) GetPopularItems(ctx context.Context, minPopularity float64) ([]*models.MenuItem, error) {
	return r.query(ctx, selectMenuItem+` WHERE popularity >= $1 ORDER BY popularity DESC`, minPopularity)
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}

func (r *MenuItemRepository) query(ctx context.Context, sql string, args ...any) ([]*models.MenuItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menuItems []*models.MenuItem
	for rows.Next() {
		menuItem := &models.MenuItem{}
		var options []byte
		err := rows.Scan(
			&menuItem.ID,
			&menuItem.RestaurantID,
			&menuItem.Name,
			&menuItem.Description,
			&menuItem.Price,
			&menuItem.PrepTime,
			&menuItem.Category,
			&menuItem.Type,
			&menuItem.Popularity,
			&menuItem.PrepComplexity,
			&menuItem.Ingredients,
			&menuItem.IsDiscountEligible,
			&menuItem.ImageURL,
			&options,
		)
		if err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &menuItem.Options); err != nil {
				return nil, fmt.Errorf("decode options for %s: %w", menuItem.ID, err)
			}
		}
		menuItems = append(menuItems, menuItem)
	}
	return menuItems, rows.Err()
}
