package factories

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/lucsky/cuid"
)

var allCuisines = []string{
	"Italian", "Cafe", "Indian", "American", "European", "Japanese", "Mexican",
	"Caribbean", "Contemporary", "Chinese", "Thai", "Vietnamese", "Greek",
	"French", "Mediterranean", "Moroccan", "Fast Food", "Street Food", "Homemade",
}

// opening windows as [open, close); equal hours mean around the clock
var tradingHours = [][2]int{{11, 23}, {11, 22}, {7, 15}, {17, 2}, {0, 0}}

type RestaurantFactory struct {
	source
	slugCache sync.Map // used slugs
}

func NewRestaurantFactory(seed int64) *RestaurantFactory {
	return &RestaurantFactory{source: newSource(seed)}
}

func (rf *RestaurantFactory) CreateRestaurant(config *models.Config) *models.Restaurant {
	name := rf.fake.Company().Name()
	avgPrepTime := rf.between(float64(config.MinPrepTime), float64(config.MaxPrepTime))
	capacity := rf.intBetween(config.MinCapacity, config.MaxCapacity)
	hours := tradingHours[rf.rng.Intn(len(tradingHours))]

	return &models.Restaurant{
		ID:               cuid.New(),
		Name:             name,
		Phone:            rf.fake.Phone().Number(),
		Town:             config.CityName,
		SlugName:         rf.createUniqueSlug(name),
		WebsiteLogoURL:   rf.fake.Internet().URL(),
		Location:         rf.pointNear(config),
		Cuisines:         rf.randomCuisines(),
		Rating:           round2(rf.between(1, 5)),
		TotalRatings:     float64(rf.intBetween(0, 1000)),
		PrepTime:         avgPrepTime,
		MinPrepTime:      float64(config.MinPrepTime),
		AvgPrepTime:      avgPrepTime,
		PickupEfficiency: round2(rf.between(0.5, 1.5)),
		MenuItems:        make([]string, 0),
		CurrentOrders:    rf.intBetween(0, capacity/2),
		Capacity:         capacity,
		Status:           models.RestaurantStatusOpen,
		OpeningHour:      hours[0],
		ClosingHour:      hours[1],
	}
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	for counter := 1; ; counter++ {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (rf *RestaurantFactory) randomCuisines() []string {
	count := rf.rng.Intn(3) + 1
	seen := make(map[string]bool, count)
	cuisines := make([]string, 0, count)
	for len(cuisines) < count {
		c := rf.pick(allCuisines)
		if !seen[c] {
			seen[c] = true
			cuisines = append(cuisines, c)
		}
	}
	return cuisines
}
