package simulator

import (
	"math"
	"sort"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
)

const earthRadiusKm = 6371.0

// selectRestaurant prefers open restaurants near home, weighting each by
// rating, proximity and recent orders. It returns nil when nothing is open.
func (s *Simulator) selectRestaurant(service checkout.OrderService, home models.Location) *models.Restaurant {
	var candidates []*models.Restaurant
	for _, radius := range []float64{5.0, 10.0, math.Inf(1)} {
		candidates = s.openRestaurantsWithin(service, home, radius)
		if len(candidates) > 0 {
			break
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	type scored struct {
		restaurant *models.Restaurant
		score      float64
	}
	ranked := make([]scored, len(candidates))
	total := 0.0
	for i, r := range candidates {
		ranked[i] = scored{r, s.restaurantScore(r, home)}
		total += ranked[i].score
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	target := s.Rng.Float64() * total
	cumulative := 0.0
	for _, rs := range ranked {
		cumulative += rs.score
		if target <= cumulative {
			return rs.restaurant
		}
	}
	return ranked[0].restaurant
}

func (s *Simulator) openRestaurantsWithin(service checkout.OrderService, home models.Location, radiusKm float64) []*models.Restaurant {
	var out []*models.Restaurant
	for _, r := range s.restaurants {
		if calculateDistance(home, r.Location) <= radiusKm && service.IsRestaurantOpen(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Simulator) restaurantScore(r *models.Restaurant, home models.Location) float64 {
	score := r.Rating
	score += 5.0 / (1.0 + calculateDistance(home, r.Location)) // up to 5 for the doorstep
	score += float64(s.metrics.ordersFor(r.ID)) * 0.1
	return math.Max(score, 0.1)
}

// calculateDistance is the haversine distance in kilometres.
func calculateDistance(loc1, loc2 models.Location) float64 {
	lat1 := degreesToRadians(loc1.Lat)
	lon1 := degreesToRadians(loc1.Lon)
	lat2 := degreesToRadians(loc2.Lat)
	lon2 := degreesToRadians(loc2.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
