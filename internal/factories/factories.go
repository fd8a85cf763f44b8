// Package factories fabricates restaurants, menus and customers for
// simulations and demos. Every factory draws from its own seeded source so a
// run can be replayed.
package factories

import (
	"math"
	"math/rand"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jaswdr/faker"
)

type source struct {
	rng  *rand.Rand
	fake faker.Faker
}

func newSource(seed int64) source {
	return source{
		rng:  rand.New(rand.NewSource(seed)),
		fake: faker.NewWithSeed(rand.NewSource(seed)),
	}
}

// pointNear returns a random point within radiusKm of the city centre.
func (s source) pointNear(config *models.Config) models.Location {
	latRange := config.UrbanRadius / 111.0 // approx. km per degree
	lonRange := latRange / math.Cos(config.CityLat*math.Pi/180.0)

	return models.Location{
		Lat: config.CityLat + (s.rng.Float64()*2-1)*latRange,
		Lon: config.CityLon + (s.rng.Float64()*2-1)*lonRange,
	}
}

func (s source) between(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.rng.Float64()*(max-min)
}

func (s source) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

func (s source) pick(items []string) string {
	return items[s.rng.Intn(len(items))]
}

func (s source) selectWeighted(items []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if len(items) == 0 || total == 0 {
		return ""
	}

	r := s.rng.Float64() * total
	sum := 0.0
	for i, item := range items {
		sum += weights[i]
		if r <= sum {
			return item
		}
	}
	return items[len(items)-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
