package models

type Address struct {
	HouseNo   string  `json:"house_no" mapstructure:"house_no"`
	Flat      string  `json:"flat" mapstructure:"flat"`
	Address1  string  `json:"address1" mapstructure:"address1"`
	Address2  string  `json:"address2" mapstructure:"address2"`
	Postcode  string  `json:"postcode" mapstructure:"postcode"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

// CustomerInfo is what the checkout form collects from the customer.
type CustomerInfo struct {
	Name          string  `json:"name" mapstructure:"name"`
	Phone         string  `json:"phone" mapstructure:"phone"`
	Email         string  `json:"email,omitempty" mapstructure:"email"`
	Address       Address `json:"delivery_address" mapstructure:"address"`
	Notes         string  `json:"notes,omitempty" mapstructure:"notes"`
	PaymentMethod string  `json:"payment_method" mapstructure:"payment_method"` // e.g., "card", "cash", "wallet"
}
