package models

// Customization is one selected choice for a menu option. Only OptionID and
// ChoiceID take part in line identity.
type Customization struct {
	OptionID   string  `json:"option_id" mapstructure:"option_id"`
	ChoiceID   string  `json:"choice_id" mapstructure:"choice_id"`
	Label      string  `json:"label,omitempty" mapstructure:"label"`
	PriceDelta float64 `json:"price_delta" mapstructure:"price_delta"`
}

type CartLineItem struct {
	ID               string          `json:"id"`
	CatalogItemID    string          `json:"catalog_item_id"`
	Name             string          `json:"name"`
	UnitPrice        float64         `json:"unit_price"` // menu price plus customization deltas at time of add
	Quantity         int             `json:"quantity"`
	Customizations   []Customization `json:"customizations"`
	ImageURL         string          `json:"image_url,omitempty"`
	DiscountEligible bool            `json:"discount_eligible"`
}

func (l CartLineItem) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
