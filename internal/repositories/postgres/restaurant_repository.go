package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5"
)

const insertRestaurant = `
    INSERT INTO restaurants (
        id, name, phone, town, slug_name, website_logo_url, location, cuisines,
        rating, total_ratings, prep_time, min_prep_time, avg_prep_time,
        pickup_efficiency, capacity, status, opening_hour, closing_hour
    ) VALUES (
        $1, $2, $3, $4, $5, $6,
        ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography,
        $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
    )`

const selectRestaurant = `
    SELECT
        id, name, phone, town, slug_name, website_logo_url,
        ST_X(location::geometry) AS longitude, ST_Y(location::geometry) AS latitude,
        cuisines, rating, total_ratings, prep_time, min_prep_time, avg_prep_time,
        pickup_efficiency, capacity, status, opening_hour, closing_hour
    FROM restaurants`

type RestaurantRepository struct {
	db DB
}

func NewRestaurantRepository(db DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func restaurantArgs(restaurant *models.Restaurant) []interface{} {
	return []interface{}{
		restaurant.ID,
		restaurant.Name,
		restaurant.Phone,
		restaurant.Town,
		restaurant.SlugName,
		restaurant.WebsiteLogoURL,
		restaurant.Location.Lon,
		restaurant.Location.Lat,
		restaurant.Cuisines,
		restaurant.Rating,
		restaurant.TotalRatings,
		restaurant.PrepTime,
		restaurant.MinPrepTime,
		restaurant.AvgPrepTime,
		restaurant.PickupEfficiency,
		restaurant.Capacity,
		restaurant.Status,
		restaurant.OpeningHour,
		restaurant.ClosingHour,
	}
}

// BulkCreate inserts all restaurants in one transaction. COPY cannot build the
// PostGIS point, so each row is a separate insert.
func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	return execTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, restaurant := range restaurants {
			if _, err := tx.Exec(ctx, insertRestaurant, restaurantArgs(restaurant)...); err != nil {
				return fmt.Errorf("insert restaurant %s: %w", restaurant.ID, err)
			}
		}
		return nil
	})
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	_, err := r.db.Exec(ctx, insertRestaurant, restaurantArgs(restaurant)...)
	return err
}

// GetAll loads every restaurant with the ids of its menu items.
func (r *RestaurantRepository) GetAll(ctx context.Context) (map[string]*models.Restaurant, error) {
	rows, err := r.db.Query(ctx, selectRestaurant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make(map[string]*models.Restaurant)
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants[restaurant.ID] = restaurant
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	menuRows, err := r.db.Query(ctx, `SELECT id, restaurant_id FROM menu_items ORDER BY restaurant_id, id`)
	if err != nil {
		return nil, err
	}
	defer menuRows.Close()

	for menuRows.Next() {
		var id, restaurantID string
		if err := menuRows.Scan(&id, &restaurantID); err != nil {
			return nil, err
		}
		if restaurant, exists := restaurants[restaurantID]; exists {
			restaurant.MenuItems = append(restaurant.MenuItems, id)
		}
	}
	return restaurants, menuRows.Err()
}

// FindNearby returns restaurants within radiusMeters, nearest first.
func (r *RestaurantRepository) FindNearby(ctx context.Context, location models.Location, radiusMeters float64) ([]*models.Restaurant, error) {
	rows, err := r.db.Query(ctx, selectRestaurant+`
    WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
    ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)`,
		location.Lon, location.Lat, radiusMeters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *RestaurantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	var lon, lat float64
	restaurant := &models.Restaurant{}
	err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Phone,
		&restaurant.Town,
		&restaurant.SlugName,
		&restaurant.WebsiteLogoURL,
		&lon,
		&lat,
		&restaurant.Cuisines,
		&restaurant.Rating,
		&restaurant.TotalRatings,
		&restaurant.PrepTime,
		&restaurant.MinPrepTime,
		&restaurant.AvgPrepTime,
		&restaurant.PickupEfficiency,
		&restaurant.Capacity,
		&restaurant.Status,
		&restaurant.OpeningHour,
		&restaurant.ClosingHour,
	)
	if err != nil {
		return nil, err
	}
	restaurant.Location = models.Location{Lon: lon, Lat: lat}
	return restaurant, nil
}
