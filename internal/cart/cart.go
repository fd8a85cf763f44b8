// Package cart holds the in-memory shopping cart: an ordered list of line
// items with merge-on-add semantics.
//
// A Cart is owned by a single caller and is not safe for concurrent use.
// Every mutation builds a fresh slice and swaps it in whole, so slices handed
// out by Items are never modified afterwards.
package cart

import (
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/google/uuid"
)

type Cart struct {
	items []models.CartLineItem
	newID func() string
}

type Option func(*Cart)

// WithIDGenerator replaces the line id generator (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) {
		c.newID = fn
	}
}

func New(opts ...Option) *Cart {
	c := &Cart{newID: uuid.NewString}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem adds quantity units of item with the given customizations. If a line
// with the same catalog item and customizations exists its quantity grows,
// otherwise a new line is appended. It returns the id of the affected line.
func (c *Cart) AddItem(item models.MenuItem, quantity int, customizations []models.Customization) (string, error) {
	if quantity <= 0 {
		return "", ErrNonPositiveQuantity
	}

	if idx := c.indexOfMatch(item.ID, customizations); idx >= 0 {
		next := c.snapshot()
		next[idx].Quantity += quantity
		c.items = next
		return next[idx].ID, nil
	}

	line := models.CartLineItem{
		ID:               c.newID(),
		CatalogItemID:    item.ID,
		Name:             item.Name,
		UnitPrice:        item.Price + priceDeltas(customizations),
		Quantity:         quantity,
		Customizations:   cloneCustomizations(customizations),
		ImageURL:         item.ImageURL,
		DiscountEligible: item.IsDiscountEligible,
	}
	next := make([]models.CartLineItem, 0, len(c.items)+1)
	next = append(next, c.items...)
	c.items = append(next, line)
	return line.ID, nil
}

// UpdateQuantity sets the quantity of a line in place. A quantity of zero or
// less removes the line. It reports whether the line existed.
func (c *Cart) UpdateQuantity(lineID string, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveItem(lineID)
	}
	idx := c.indexOf(lineID)
	if idx < 0 {
		return false
	}
	next := c.snapshot()
	next[idx].Quantity = quantity
	c.items = next
	return true
}

// RemoveItem drops a line. Unknown ids are ignored.
func (c *Cart) RemoveItem(lineID string) bool {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return false
	}
	next := make([]models.CartLineItem, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	c.items = append(next, c.items[idx+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartLineItem {
	return c.snapshot()
}

func (c *Cart) Line(lineID string) (models.CartLineItem, bool) {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return models.CartLineItem{}, false
	}
	line := c.items[idx]
	line.Customizations = cloneCustomizations(line.Customizations)
	return line, true
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.items {
		count += line.Quantity
	}
	return count
}

func (c *Cart) indexOf(lineID string) int {
	for i, line := range c.items {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfMatch(catalogItemID string, customizations []models.Customization) int {
	for i, line := range c.items {
		if line.CatalogItemID == catalogItemID && SameCustomizations(line.Customizations, customizations) {
			return i
		}
	}
	return -1
}

func (c *Cart) snapshot() []models.CartLineItem {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]models.CartLineItem, len(c.items))
	for i, line := range c.items {
		line.Customizations = cloneCustomizations(line.Customizations)
		out[i] = line
	}
	return out
}
