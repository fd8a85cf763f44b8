// Package simulator drives checkout sessions the way shoppers would: pick a
// restaurant, fill a cart, change their mind, then submit or walk away.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/factories"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type Simulator struct {
	Config *models.Config
	Rng    *rand.Rand

	logger     *zap.Logger
	progress   io.Writer
	restaurant repositories.RestaurantRepository
	menu       repositories.MenuItemRepository

	restaurants []*models.Restaurant
	menuItems   map[string][]*models.MenuItem // by restaurant id

	customerFactory *factories.CustomerFactory
	menuItemFactory *factories.MenuItemFactory

	clockMu     sync.Mutex
	currentTime time.Time

	metrics *metricsRecorder
}

type Option func(*Simulator)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithCatalogRepositories loads restaurants and menus from storage, seeding
// it first when it is empty.
func WithCatalogRepositories(restaurants repositories.RestaurantRepository, menu repositories.MenuItemRepository) Option {
	return func(s *Simulator) {
		s.restaurant = restaurants
		s.menu = menu
	}
}

// WithProgress renders a progress bar to w while sessions run.
func WithProgress(w io.Writer) Option {
	return func(s *Simulator) {
		s.progress = w
	}
}

func NewSimulator(config *models.Config, opts ...Option) *Simulator {
	start := config.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	seed := int64(config.Seed)
	s := &Simulator{
		Config:          config,
		Rng:             rand.New(rand.NewSource(seed)),
		logger:          zap.NewNop(),
		menuItems:       make(map[string][]*models.MenuItem),
		customerFactory: factories.NewCustomerFactory(seed + 1),
		menuItemFactory: factories.NewMenuItemFactory(seed + 2),
		currentTime:     start,
		metrics:         newMetricsRecorder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the simulated wall clock. Hand it to the order service so opening
// hours and order timestamps follow the simulation.
func (s *Simulator) Now() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.currentTime
}

func (s *Simulator) advance(d time.Duration) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.currentTime = s.currentTime.Add(d)
}

// Restaurants returns the loaded catalog in a stable order.
func (s *Simulator) Restaurants() []*models.Restaurant {
	return s.restaurants
}

// Run loads the catalog and plays Config.Sessions checkout sessions against
// service. It stops early when ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, service checkout.OrderService) (models.OrderMetrics, error) {
	if err := s.initializeCatalog(ctx); err != nil {
		return models.OrderMetrics{}, err
	}
	if len(s.restaurants) == 0 {
		return models.OrderMetrics{}, fmt.Errorf("no restaurants to simulate against")
	}

	instrumented := &instrumentedService{OrderService: service, metrics: s.metrics}

	var bar *progressbar.ProgressBar
	if s.progress != nil {
		bar = progressbar.NewOptions(s.Config.Sessions,
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionSetDescription("checkout sessions"),
			progressbar.OptionShowCount(),
		)
	}

	s.logger.Info("simulation starting",
		zap.Int("sessions", s.Config.Sessions),
		zap.Int("restaurants", len(s.restaurants)),
		zap.Time("start", s.Now()))

	for i := 0; i < s.Config.Sessions; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("simulation interrupted", zap.Int("completed_sessions", i))
			break
		}
		s.runSession(ctx, instrumented)
		s.advance(time.Duration(1+s.Rng.Intn(5)) * time.Minute)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	metrics := s.metrics.snapshot()
	s.logger.Info("simulation finished",
		zap.Int("orders", metrics.TotalOrders),
		zap.Int("failed", metrics.FailedOrders),
		zap.Int("validation_failures", metrics.ValidationFailures),
		zap.Int("abandoned", metrics.AbandonedSessions),
		zap.Float64("revenue", metrics.TotalRevenue))
	return metrics, nil
}

// Metrics returns the figures gathered so far.
func (s *Simulator) Metrics() models.OrderMetrics {
	return s.metrics.snapshot()
}

func (s *Simulator) initializeCatalog(ctx context.Context) error {
	if s.restaurant != nil && s.menu != nil {
		count, err := s.restaurant.Count(ctx)
		if err != nil {
			return fmt.Errorf("count restaurants: %w", err)
		}
		if count > 0 {
			return s.loadCatalog(ctx)
		}
	}

	s.generateCatalog()

	if s.restaurant != nil && s.menu != nil {
		if err := s.restaurant.BulkCreate(ctx, s.restaurants); err != nil {
			return fmt.Errorf("store restaurants: %w", err)
		}
		var items []*models.MenuItem
		for _, r := range s.restaurants {
			items = append(items, s.menuItems[r.ID]...)
		}
		if err := s.menu.BulkCreate(ctx, items); err != nil {
			return fmt.Errorf("store menu items: %w", err)
		}
		s.logger.Info("catalog stored", zap.Int("restaurants", len(s.restaurants)), zap.Int("menu_items", len(items)))
	}
	return nil
}

func (s *Simulator) loadCatalog(ctx context.Context) error {
	byID, err := s.restaurant.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load restaurants: %w", err)
	}
	for _, r := range byID {
		items, err := s.menu.GetByRestaurantID(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("load menu for %s: %w", r.ID, err)
		}
		s.restaurants = append(s.restaurants, r)
		s.menuItems[r.ID] = items
	}
	sort.Slice(s.restaurants, func(i, j int) bool {
		return s.restaurants[i].ID < s.restaurants[j].ID
	})
	s.logger.Info("catalog loaded", zap.Int("restaurants", len(s.restaurants)))
	return nil
}

func (s *Simulator) generateCatalog() {
	restaurantFactory := factories.NewRestaurantFactory(int64(s.Config.Seed) + 3)
	for i := 0; i < s.Config.InitialRestaurants; i++ {
		r := restaurantFactory.CreateRestaurant(s.Config)
		itemCount := s.Config.MinMenuItems
		if span := s.Config.MaxMenuItems - s.Config.MinMenuItems; span > 0 {
			itemCount += s.Rng.Intn(span + 1)
		}
		items := make([]*models.MenuItem, 0, itemCount)
		for j := 0; j < itemCount; j++ {
			item := s.menuItemFactory.CreateMenuItem(r)
			items = append(items, item)
			r.MenuItems = append(r.MenuItems, item.ID)
		}
		s.restaurants = append(s.restaurants, r)
		s.menuItems[r.ID] = items
	}
}
