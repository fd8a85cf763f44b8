package simulator

import (
	"context"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/lifecycle"
	"github.com/chrisdamba/foodcart/internal/models"
	"go.uber.org/zap"
)

// runSession plays one shopper from landing on a restaurant to checkout.
func (s *Simulator) runSession(ctx context.Context, service checkout.OrderService) {
	customer := s.customerFactory.CreateCustomer(s.Config)
	home := models.Location{Lat: customer.Address.Latitude, Lon: customer.Address.Longitude}

	restaurant := s.selectRestaurant(service, home)
	if restaurant == nil {
		s.logger.Debug("no open restaurant for shopper")
		s.metrics.abandoned()
		return
	}
	menu := s.menuItems[restaurant.ID]
	if len(menu) == 0 {
		s.metrics.abandoned()
		return
	}

	guard := lifecycle.New()
	leaving := &leavingService{OrderService: service, left: guard.Done(), entered: make(chan struct{})}
	session := checkout.NewSession(leaving,
		checkout.WithGuard(guard),
		checkout.WithLogger(s.logger.With(zap.String("restaurant_id", restaurant.ID))),
		checkout.WithRestaurant(restaurant),
		checkout.WithSubmitTimeout(s.Config.SubmitTimeout),
		checkout.WithDeliveryEstimate(s.Config.DefaultDeliveryEstimate),
		checkout.WithOnSubmitted(func(order models.Order, _ models.SubmitResult) {
			s.metrics.orderPlaced(order)
			restaurant.CurrentOrders++
		}),
	)

	s.fillCart(session, menu)
	s.editCart(session)
	if !session.CanCheckout() {
		s.metrics.abandoned()
		return
	}

	orderType := models.OrderTypeDelivery
	if s.Rng.Float64() < s.Config.PickupRate {
		orderType = models.OrderTypePickup
	}
	session.SetOrderType(orderType)

	if s.Rng.Float64() < s.Config.IncompleteRate {
		customer = s.customerFactory.Degrade(customer)
	}

	if s.Rng.Float64() < s.Config.AbandonRate {
		leaving.hold = true
		s.abandonDuringSubmit(ctx, session, leaving, customer, orderType)
	} else {
		state := session.SubmitOrder(ctx, customer, orderType)
		s.logger.Debug("session settled",
			zap.String("status", string(state.Status)),
			zap.String("order_id", state.OrderID),
			zap.String("reason", state.Reason))
	}

	// kitchens work through their queue between sessions
	if restaurant.CurrentOrders > 0 && s.Rng.Float64() < 0.5 {
		restaurant.CurrentOrders--
	}
}

func (s *Simulator) fillCart(session *checkout.Session, menu []*models.MenuItem) {
	maxLines := int(s.Config.MaxLinesPerCart)
	if maxLines < 1 {
		maxLines = 1
	}
	picks := 1 + s.Rng.Intn(maxLines)

	for i := 0; i < picks; i++ {
		item := menu[s.Rng.Intn(len(menu))]
		customizations := s.menuItemFactory.PickCustomizations(item)
		s.addItem(session, item, 1+s.Rng.Intn(3), customizations)

		// the same dish again, configured the same way
		if s.Rng.Float64() < s.Config.RepeatAddRate {
			s.addItem(session, item, 1, customizations)
		}
	}
}

func (s *Simulator) addItem(session *checkout.Session, item *models.MenuItem, quantity int, customizations []models.Customization) {
	before := len(session.Cart())
	if _, err := session.AddItem(*item, quantity, customizations); err != nil {
		s.logger.Warn("add to cart failed", zap.String("item_id", item.ID), zap.Error(err))
		return
	}
	if len(session.Cart()) == before {
		s.metrics.mergedAdd()
	}
}

func (s *Simulator) editCart(session *checkout.Session) {
	if s.Rng.Float64() >= s.Config.EditRate {
		return
	}
	lines := session.Cart()
	if len(lines) == 0 {
		return
	}
	line := lines[s.Rng.Intn(len(lines))]
	if s.Rng.Float64() < 0.5 {
		session.UpdateQuantity(line.ID, s.Rng.Intn(4)) // zero drops the line
	} else {
		session.RemoveItem(line.ID)
	}
}

// abandonDuringSubmit leaves the screen once the order service has the order.
// The order is still placed; the session discards the result.
func (s *Simulator) abandonDuringSubmit(ctx context.Context, session *checkout.Session, leaving *leavingService, customer models.CustomerInfo, orderType models.OrderType) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.SubmitOrder(ctx, customer, orderType)
	}()

	// validation failures never reach the service
	select {
	case <-leaving.entered:
	case <-done:
	}
	session.Teardown()
	<-done
	s.metrics.abandoned()
}

// leavingService holds a submission, when hold is set, until the shopper has
// left so the result always arrives after teardown.
type leavingService struct {
	checkout.OrderService
	hold    bool
	left    <-chan struct{}
	entered chan struct{}
}

func (l *leavingService) SubmitOrder(ctx context.Context, order *models.Order) (models.SubmitResult, error) {
	if l.hold {
		close(l.entered)
		select {
		case <-l.left:
		case <-ctx.Done():
		}
	}
	return l.OrderService.SubmitOrder(ctx, order)
}
