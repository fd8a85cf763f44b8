package models

type MenuItem struct {
	ID                 string       `json:"id"`
	RestaurantID       string       `json:"restaurant_id"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	Price              float64      `json:"price"`
	PrepTime           float64      `json:"prep_time"` // Preparation time in minutes
	Category           string       `json:"category"`
	Type               string       `json:"type"`
	Popularity         float64      `json:"popularity"`
	PrepComplexity     float64      `json:"prep_complexity"`
	Ingredients        []string     `json:"ingredients"`
	IsDiscountEligible bool         `json:"is_discount_eligible"`
	ImageURL           string       `json:"image_url,omitempty"`
	Options            []MenuOption `json:"options,omitempty"`
}

// MenuOption is a customization group offered on a menu item, e.g. "size".
type MenuOption struct {
	ID       string       `json:"id" mapstructure:"id"`
	Name     string       `json:"name" mapstructure:"name"`
	Required bool         `json:"required" mapstructure:"required"`
	Choices  []MenuChoice `json:"choices" mapstructure:"choices"`
}

type MenuChoice struct {
	ID         string  `json:"id" mapstructure:"id"`
	Name       string  `json:"name" mapstructure:"name"`
	PriceDelta float64 `json:"price_delta" mapstructure:"price_delta"`
}

// Option returns the option with the given id, or nil.
func (m *MenuItem) Option(optionID string) *MenuOption {
	for i := range m.Options {
		if m.Options[i].ID == optionID {
			return &m.Options[i]
		}
	}
	return nil
}

// Choice returns the choice with the given id, or nil.
func (o *MenuOption) Choice(choiceID string) *MenuChoice {
	for i := range o.Choices {
		if o.Choices[i].ID == choiceID {
			return &o.Choices[i]
		}
	}
	return nil
}
