package orderservice

import (
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateOrderTotals prices a cart. Every component is rounded to cents and
// the total is the sum of the rounded components.
func (s *Service) CalculateOrderTotals(items []models.CartLineItem, orderType models.OrderType) models.OrderTotals {
	if len(items) == 0 {
		return models.OrderTotals{}
	}

	subtotal := decimal.Zero
	discountable := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		if item.DiscountEligible {
			discountable = discountable.Add(line)
		}
	}

	discount := decimal.Zero
	if discountable.GreaterThanOrEqual(decimal.NewFromFloat(s.cfg.MinOrderForDiscount)) {
		discount = decimal.Min(
			discountable.Mul(decimal.NewFromFloat(s.cfg.DiscountPercentage)),
			decimal.NewFromFloat(s.cfg.MaxDiscountAmount),
		)
	}

	subtotal = subtotal.Round(2)
	discount = discount.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(s.cfg.TaxRate)).Round(2)
	deliveryFee := s.deliveryFee(subtotal, orderType).Round(2)
	serviceFee := subtotal.Mul(decimal.NewFromFloat(s.cfg.ServiceFeePercentage)).Round(2)
	total := subtotal.Add(tax).Add(deliveryFee).Add(serviceFee).Sub(discount)

	return models.OrderTotals{
		Subtotal:    subtotal.InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		DeliveryFee: deliveryFee.InexactFloat64(),
		ServiceFee:  serviceFee.InexactFloat64(),
		Discount:    discount.InexactFloat64(),
		Total:       total.InexactFloat64(),
	}
}

func (s *Service) deliveryFee(subtotal decimal.Decimal, orderType models.OrderType) decimal.Decimal {
	if orderType == models.OrderTypePickup {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(decimal.NewFromFloat(s.cfg.FreeDeliveryThreshold)) {
		return decimal.Zero
	}

	fee := decimal.NewFromFloat(s.cfg.BaseDeliveryFee)
	// Additional fee for small orders
	if subtotal.LessThan(decimal.NewFromFloat(s.cfg.SmallOrderThreshold)) {
		fee = fee.Add(decimal.NewFromFloat(s.cfg.SmallOrderFee))
	}
	return fee
}

// cents converts an amount to integer cents for wire formats that avoid floats.
func cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}
