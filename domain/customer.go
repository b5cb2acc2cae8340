package domain

import "time"

// Address is a postal address attached to a customer record.
type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer is a billing contact. Email is unique across all customers,
// compared case-insensitively.
type Customer struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone,omitempty"`
	BillingAddress        Address   `json:"billing_address"`
	ShippingAddress       Address   `json:"shipping_address"`
	ShippingSameAsBilling bool      `json:"shipping_same_as_billing"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
