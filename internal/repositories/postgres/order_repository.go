package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5"
)

var orderItemColumns = []string{
	"order_id", "position", "line_id", "menu_item_id", "name",
	"unit_price", "quantity", "customizations",
}

const orderColumns = `id, restaurant_id, order_type, status, subtotal, tax, delivery_fee,
            service_fee, discount, total, customer_info, estimated_delivery_time, placed_at`

type OrderRepository struct {
	db DB
}

func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create writes the order row and its lines in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	customer, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return fmt.Errorf("marshal customer info: %w", err)
	}
	lines := make([][]interface{}, len(order.Items))
	for i, item := range order.Items {
		customizations, err := json.Marshal(item.Customizations)
		if err != nil {
			return fmt.Errorf("marshal customizations: %w", err)
		}
		lines[i] = []interface{}{
			order.ID, i, item.ID, item.CatalogItemID, item.Name,
			item.UnitPrice, item.Quantity, customizations,
		}
	}

	return execTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO orders (`+orderColumns+`)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			order.ID,
			order.RestaurantID,
			string(order.OrderType),
			order.Status,
			order.Subtotal,
			order.Tax,
			order.DeliveryFee,
			order.ServiceFee,
			order.Discount,
			order.Total,
			customer,
			order.EstimatedDeliveryTime,
			order.PlacedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order %s: %w", order.ID, err)
		}

		if len(lines) == 0 {
			return nil
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"order_items"}, orderItemColumns, pgx.CopyFromRows(lines)); err != nil {
			return fmt.Errorf("copy order items for %s: %w", order.ID, err)
		}
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListByRestaurant returns the most recent orders first, without their lines.
func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE restaurant_id = $1
        ORDER BY placed_at DESC
        LIMIT $2`, restaurantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "TRUNCATE TABLE orders CASCADE")
	return err
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]models.CartLineItem, error) {
	rows, err := r.db.Query(ctx, `
        SELECT line_id, menu_item_id, name, unit_price, quantity, customizations
        FROM order_items
        WHERE order_id = $1
        ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartLineItem
	for rows.Next() {
		var item models.CartLineItem
		var customizations []byte
		if err := rows.Scan(&item.ID, &item.CatalogItemID, &item.Name, &item.UnitPrice, &item.Quantity, &customizations); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
			return nil, fmt.Errorf("decode customizations: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var orderType string
	var customer []byte
	err := row.Scan(
		&order.ID,
		&order.RestaurantID,
		&orderType,
		&order.Status,
		&order.Subtotal,
		&order.Tax,
		&order.DeliveryFee,
		&order.ServiceFee,
		&order.Discount,
		&order.Total,
		&customer,
		&order.EstimatedDeliveryTime,
		&order.PlacedAt,
	)
	if err != nil {
		return nil, err
	}
	order.OrderType = models.OrderType(orderType)
	if err := json.Unmarshal(customer, &order.CustomerInfo); err != nil {
		return nil, fmt.Errorf("decode customer info: %w", err)
	}
	return order, nil
}
