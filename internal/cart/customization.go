package cart

import "github.com/chrisdamba/foodcart/internal/models"

// SameCustomizations reports whether a and b select the same choices in the
// same order. Labels and price deltas are ignored.
func SameCustomizations(a, b []models.Customization) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].OptionID != b[i].OptionID || a[i].ChoiceID != b[i].ChoiceID {
			return false
		}
	}
	return true
}

func cloneCustomizations(in []models.Customization) []models.Customization {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Customization, len(in))
	copy(out, in)
	return out
}

func priceDeltas(in []models.Customization) float64 {
	var total float64
	for _, c := range in {
		total += c.PriceDelta
	}
	return total
}
