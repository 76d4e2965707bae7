package models

// Address is the address where a person lives. It has no identity of its
// own and is always replaced as a whole.
type Address struct {
	Street  string `json:"street" validate:"required,address_line"`
	City    string `json:"city" validate:"required,address_line"`
	State   string `json:"state" validate:"required,address_line"`
	ZipCode string `json:"zip_code" validate:"required,address_line"`
}

var addressFields = []string{"street", "city", "state", "zip_code"}

// document returns the stored form of the address
func (a *Address) document() map[string]interface{} {
	return map[string]interface{}{
		"street":   a.Street,
		"city":     a.City,
		"state":    a.State,
		"zip_code": a.ZipCode,
	}
}
