package factories

import (
	"strconv"

	"github.com/chrisdamba/foodcart/internal/models"
)

var (
	paymentMethods = []string{"card", "cash", "wallet"}
	paymentWeights = []float64{0.6, 0.3, 0.1}
	deliveryNotes  = []string{"Leave at the door", "Ring the bell twice", "Call on arrival", "Side entrance"}
)

type CustomerFactory struct {
	source
}

func NewCustomerFactory(seed int64) *CustomerFactory {
	return &CustomerFactory{source: newSource(seed)}
}

// CreateCustomer returns complete checkout details for an address inside the
// configured city.
func (cf *CustomerFactory) CreateCustomer(config *models.Config) models.CustomerInfo {
	loc := cf.pointNear(config)
	info := models.CustomerInfo{
		Name:  cf.fake.Person().Name(),
		Phone: cf.fake.Phone().Number(),
		Email: cf.fake.Internet().Email(),
		Address: models.Address{
			HouseNo:   strconv.Itoa(cf.intBetween(1, 250)),
			Address1:  cf.fake.Address().StreetName(),
			Postcode:  cf.fake.Address().PostCode(),
			Latitude:  loc.Lat,
			Longitude: loc.Lon,
		},
		PaymentMethod: cf.selectWeighted(paymentMethods, paymentWeights),
	}
	if cf.rng.Float64() < 0.2 {
		info.Notes = cf.pick(deliveryNotes)
	}
	if cf.rng.Float64() < 0.3 {
		info.Address.Flat = "Flat " + strconv.Itoa(cf.intBetween(1, 40))
	}
	return info
}

// Degrade removes one field checkout requires, producing details that fail
// validation.
func (cf *CustomerFactory) Degrade(info models.CustomerInfo) models.CustomerInfo {
	switch cf.rng.Intn(3) {
	case 0:
		info.Name = ""
	case 1:
		info.Phone = ""
	default:
		info.Address = models.Address{}
	}
	return info
}
