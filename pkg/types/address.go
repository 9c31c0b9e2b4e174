package types

import "strings"

// Address is the buyer-facing postal address stored as JSON on carts and orders.
type Address struct {
	FirstName   string  `json:"first_name,omitempty"`
	LastName    string  `json:"last_name,omitempty"`
	Company     *string `json:"company,omitempty"`
	Address1    string  `json:"address_1"`
	Address2    *string `json:"address_2,omitempty"`
	City        string  `json:"city"`
	Province    string  `json:"province,omitempty"`
	PostalCode  string  `json:"postal_code"`
	CountryCode string  `json:"country_code"`
	Phone       *string `json:"phone,omitempty"`
}

// Clone returns a deep copy so orders never share address pointers with the cart.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	out := *a
	out.Company = cloneString(a.Company)
	out.Address2 = cloneString(a.Address2)
	out.Phone = cloneString(a.Phone)
	out.CountryCode = strings.ToLower(strings.TrimSpace(a.CountryCode))
	return &out
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
