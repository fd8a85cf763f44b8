package factories

import (
	"fmt"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/lucsky/cuid"
)

var dishesByCuisine = map[string][]string{
	"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna", "Tiramisu"},
	"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Naan Bread", "Biryani"},
	"American":      {"Cheeseburger", "Hot Dog", "BBQ Ribs", "Apple Pie"},
	"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
	"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
	"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
	"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
	"Greek":         {"Gyros", "Greek Salad", "Moussaka", "Baklava"},
	"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Creme Brulee"},
	"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
}

var (
	menuItemTypes  = []string{"appetizer", "main course", "side dish", "dessert", "drink"}
	allIngredients = []string{"Chicken", "Beef", "Pork", "Fish", "Tofu", "Cheese", "Tomato", "Lettuce", "Onion", "Garlic", "Bread", "Rice", "Pasta", "Egg", "Milk"}
	extras         = []string{"Extra Cheese", "Bacon", "Jalapenos", "Avocado", "Fried Egg", "Mushrooms"}
)

type MenuItemFactory struct {
	source
}

func NewMenuItemFactory(seed int64) *MenuItemFactory {
	return &MenuItemFactory{source: newSource(seed)}
}

func (mf *MenuItemFactory) CreateMenuItem(restaurant *models.Restaurant) *models.MenuItem {
	itemType := mf.pick(menuItemTypes)
	item := &models.MenuItem{
		ID:                 cuid.New(),
		RestaurantID:       restaurant.ID,
		Name:               mf.dishName(restaurant.Cuisines, itemType),
		Description:        mf.fake.Lorem().Sentence(10),
		Price:              round2(mf.between(3, 25)),
		PrepTime:           round2(mf.between(5, 30)),
		Category:           mf.pick(restaurant.Cuisines),
		Type:               itemType,
		Popularity:         round2(mf.rng.Float64()),
		PrepComplexity:     round2(mf.between(0.5, 1.5)),
		Ingredients:        mf.ingredients(),
		IsDiscountEligible: mf.rng.Float64() < 0.5,
		ImageURL:           mf.fake.Internet().URL(),
	}
	item.Options = mf.options(itemType)
	return item
}

func (mf *MenuItemFactory) dishName(cuisines []string, itemType string) string {
	if itemType == "drink" {
		return mf.pick([]string{"Cola", "Lemonade", "Iced Tea", "Sparkling Water", "Mango Lassi"})
	}
	if dishes, ok := dishesByCuisine[mf.pick(cuisines)]; ok {
		return dishes[mf.rng.Intn(len(dishes))]
	}
	return "Special of the Day"
}

func (mf *MenuItemFactory) ingredients() []string {
	count := mf.rng.Intn(5) + 2 // 2 to 6
	out := make([]string, count)
	for i := range out {
		out[i] = mf.pick(allIngredients)
	}
	return out
}

// options gives mains and drinks a required size and mains an optional extra.
func (mf *MenuItemFactory) options(itemType string) []models.MenuOption {
	var opts []models.MenuOption
	switch itemType {
	case "main course":
		opts = append(opts, models.MenuOption{
			ID: "size", Name: "Size", Required: true,
			Choices: []models.MenuChoice{
				{ID: "regular", Name: "Regular"},
				{ID: "large", Name: "Large", PriceDelta: round2(mf.between(1.5, 4))},
			},
		})
		choices := make([]models.MenuChoice, 0, 3)
		for i, name := range []string{mf.pick(extras), mf.pick(extras)} {
			choices = append(choices, models.MenuChoice{ID: fmt.Sprintf("extra-%d", i+1), Name: name, PriceDelta: round2(mf.between(0.5, 2))})
		}
		opts = append(opts, models.MenuOption{ID: "extras", Name: "Extras", Choices: choices})
	case "drink":
		opts = append(opts, models.MenuOption{
			ID: "size", Name: "Size", Required: true,
			Choices: []models.MenuChoice{
				{ID: "small", Name: "Small", PriceDelta: -0.5},
				{ID: "regular", Name: "Regular"},
				{ID: "large", Name: "Large", PriceDelta: 0.75},
			},
		})
	}
	return opts
}

// PickCustomizations chooses one choice for every required option and
// sometimes one for an optional option, in option order.
func (mf *MenuItemFactory) PickCustomizations(item *models.MenuItem) []models.Customization {
	var out []models.Customization
	for _, opt := range item.Options {
		if len(opt.Choices) == 0 || (!opt.Required && mf.rng.Float64() >= 0.3) {
			continue
		}
		choice := opt.Choices[mf.rng.Intn(len(opt.Choices))]
		out = append(out, models.Customization{
			OptionID:   opt.ID,
			ChoiceID:   choice.ID,
			Label:      opt.Name + ": " + choice.Name,
			PriceDelta: choice.PriceDelta,
		})
	}
	return out
}
