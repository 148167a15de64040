package types

import "strings"

// Address is the delivery/billing record captured at checkout. Stored as
// jsonb on orders; the required-field guard lives in the checkout session,
// this type only carries the data.
type Address struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	PostalCode *string `json:"postal_code,omitempty"`
}

// IsZero reports whether no field has been filled in.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.FirstName) == "" &&
		strings.TrimSpace(a.LastName) == "" &&
		strings.TrimSpace(a.Email) == "" &&
		strings.TrimSpace(a.Phone) == "" &&
		strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.City) == ""
}

// MissingRequiredFields lists which mandatory checkout fields are empty.
func (a Address) MissingRequiredFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"line1", a.Line1},
		{"city", a.City},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}
