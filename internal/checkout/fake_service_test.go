package checkout

import (
	"context"
	"sync"

	"github.com/chrisdamba/foodcart/internal/models"
)

// fakeService prices at face value and lets each test script validation and
// submission outcomes.
type fakeService struct {
	mu          sync.Mutex
	validation  models.ValidationResult
	submitFunc  func(ctx context.Context, order *models.Order) (models.SubmitResult, error)
	submitCalls int
	submitted   []models.Order
	open        bool
	estimate    string
	totalsHook  func()
}

func newFakeService() *fakeService {
	return &fakeService{
		validation: models.ValidationResult{IsValid: true},
		submitFunc: func(ctx context.Context, order *models.Order) (models.SubmitResult, error) {
			return models.SubmitResult{Success: true, OrderID: "order-1"}, nil
		},
		open:     true,
		estimate: "20-30 min",
	}
}

func (f *fakeService) CalculateOrderTotals(items []models.CartLineItem, orderType models.OrderType) models.OrderTotals {
	f.mu.Lock()
	hook := f.totalsHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	fee := 0.0
	if orderType == models.OrderTypeDelivery && len(items) > 0 {
		fee = 2
	}
	return models.OrderTotals{Subtotal: subtotal, DeliveryFee: fee, Total: subtotal + fee}
}

func (f *fakeService) ValidateOrder(order *models.Order) models.ValidationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validation
}

func (f *fakeService) SubmitOrder(ctx context.Context, order *models.Order) (models.SubmitResult, error) {
	f.mu.Lock()
	f.submitCalls++
	f.submitted = append(f.submitted, *order)
	fn := f.submitFunc
	f.mu.Unlock()
	return fn(ctx, order)
}

func (f *fakeService) IsRestaurantOpen(restaurant *models.Restaurant) bool {
	return f.open
}

func (f *fakeService) GetEstimatedDeliveryTime(restaurant *models.Restaurant, orderType models.OrderType) string {
	if orderType == models.OrderTypePickup {
		return "10-20 min"
	}
	return f.estimate
}

func (f *fakeService) setTotalsHook(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalsHook = fn
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls
}

// blockingSubmit parks every submit call until release is closed and signals
// entered when the call has started.
func blockingSubmit(entered chan<- struct{}, release <-chan struct{}, result models.SubmitResult, err error) func(context.Context, *models.Order) (models.SubmitResult, error) {
	return func(ctx context.Context, order *models.Order) (models.SubmitResult, error) {
		entered <- struct{}{}
		<-release
		return result, err
	}
}
