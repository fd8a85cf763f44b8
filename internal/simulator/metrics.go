package simulator

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
)

// metricsRecorder is shared with submissions running on abandoned sessions.
type metricsRecorder struct {
	mu               sync.Mutex
	m                models.OrderMetrics
	itemsOrdered     int
	restaurantOrders map[string]int
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{
		m: models.OrderMetrics{
			OrdersByType: make(map[models.OrderType]int),
			PopularItems: make(map[string]int),
		},
		restaurantOrders: make(map[string]int),
	}
}

func (r *metricsRecorder) orderPlaced(order models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.TotalOrders++
	r.m.TotalRevenue += order.Total
	r.m.OrdersByType[order.OrderType]++
	r.restaurantOrders[order.RestaurantID]++
	for _, line := range order.Items {
		r.m.PopularItems[line.CatalogItemID] += line.Quantity
		r.itemsOrdered += line.Quantity
	}
}

func (r *metricsRecorder) ordersFor(restaurantID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restaurantOrders[restaurantID]
}

func (r *metricsRecorder) abandoned() {
	r.mu.Lock()
	r.m.AbandonedSessions++
	r.mu.Unlock()
}

func (r *metricsRecorder) mergedAdd() {
	r.mu.Lock()
	r.m.MergedAdds++
	r.mu.Unlock()
}

func (r *metricsRecorder) validationFailed() {
	r.mu.Lock()
	r.m.ValidationFailures++
	r.mu.Unlock()
}

func (r *metricsRecorder) submitFailed() {
	r.mu.Lock()
	r.m.FailedOrders++
	r.mu.Unlock()
}

func (r *metricsRecorder) snapshot() models.OrderMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.m
	out.OrdersByType = make(map[models.OrderType]int, len(r.m.OrdersByType))
	for k, v := range r.m.OrdersByType {
		out.OrdersByType[k] = v
	}
	out.PopularItems = make(map[string]int, len(r.m.PopularItems))
	for k, v := range r.m.PopularItems {
		out.PopularItems[k] = v
	}
	if out.TotalOrders > 0 {
		out.AvgOrderValue = out.TotalRevenue / float64(out.TotalOrders)
		out.AvgItemsPerOrder = float64(r.itemsOrdered) / float64(out.TotalOrders)
	}
	return out
}

// instrumentedService counts validation and submit failures on their way
// back to the session.
type instrumentedService struct {
	checkout.OrderService
	metrics *metricsRecorder
}

func (s *instrumentedService) ValidateOrder(order *models.Order) models.ValidationResult {
	result := s.OrderService.ValidateOrder(order)
	if !result.IsValid {
		s.metrics.validationFailed()
	}
	return result
}

func (s *instrumentedService) SubmitOrder(ctx context.Context, order *models.Order) (models.SubmitResult, error) {
	result, err := s.OrderService.SubmitOrder(ctx, order)
	if err != nil || !result.Success {
		s.metrics.submitFailed()
	}
	return result, err
}

// WriteSummary prints metrics for a terminal, listing the top items.
func WriteSummary(w io.Writer, m models.OrderMetrics, topItems int) {
	fmt.Fprintf(w, "orders placed:        %d\n", m.TotalOrders)
	fmt.Fprintf(w, "  delivery / pickup:  %d / %d\n", m.OrdersByType[models.OrderTypeDelivery], m.OrdersByType[models.OrderTypePickup])
	fmt.Fprintf(w, "submit failures:      %d\n", m.FailedOrders)
	fmt.Fprintf(w, "validation failures:  %d\n", m.ValidationFailures)
	fmt.Fprintf(w, "abandoned sessions:   %d\n", m.AbandonedSessions)
	fmt.Fprintf(w, "merged adds:          %d\n", m.MergedAdds)
	fmt.Fprintf(w, "revenue:              %.2f\n", m.TotalRevenue)
	fmt.Fprintf(w, "avg order value:      %.2f\n", m.AvgOrderValue)
	fmt.Fprintf(w, "avg items per order:  %.2f\n", m.AvgItemsPerOrder)

	type itemCount struct {
		id    string
		units int
	}
	items := make([]itemCount, 0, len(m.PopularItems))
	for id, units := range m.PopularItems {
		items = append(items, itemCount{id, units})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].units != items[j].units {
			return items[i].units > items[j].units
		}
		return items[i].id < items[j].id
	})
	if len(items) > topItems {
		items = items[:topItems]
	}
	for _, it := range items {
		fmt.Fprintf(w, "  %-28s %d\n", it.id, it.units)
	}
}
