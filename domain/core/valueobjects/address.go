package valueobjects

import "strings"

// Address is a value object for a postal address used as search input and as
// extracted-entity payload.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Postal string `json:"postal,omitempty"`
}

// NewAddress builds an Address, trimming surrounding whitespace
func NewAddress(street, city, state, postal string) Address {
	return Address{
		Street: strings.TrimSpace(street),
		City:   strings.TrimSpace(city),
		State:  strings.TrimSpace(state),
		Postal: strings.TrimSpace(postal),
	}
}

// IsSearchable reports whether the address carries enough information to
// seed an address-intelligence lookup (full street/city/state; postal is
// optional).
func (a Address) IsSearchable() bool {
	return a.Street != "" && a.City != "" && a.State != ""
}

// IsZero checks if the address is empty
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Postal == ""
}

// String returns a single-line rendering of the address
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Postal} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals checks if two addresses are the same
func (a Address) Equals(other Address) bool {
	return a == other
}
