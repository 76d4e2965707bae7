package models

// PersonCreate is the body of person creation requests
type PersonCreate struct {
	Name    *string  `json:"name" validate:"required,person_name"`
	Address *Address `json:"address" validate:"-"`
	Birth   *Date    `json:"birth,omitempty" validate:"-"`
}

// PersonUpdate is the body of person update requests. Only the fields to
// change are sent, a supplied address replaces the stored one.
type PersonUpdate struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,person_name"`
	Address *Address `json:"address,omitempty" validate:"-"`
	Birth   *Date    `json:"birth,omitempty" validate:"-"`
}

// PersonRead is the person as returned to clients
type PersonRead struct {
	Name     string   `json:"name" validate:"required,person_name"`
	Address  *Address `json:"address" validate:"required"`
	Birth    *Date    `json:"birth,omitempty" validate:"-"`
	PersonID string   `json:"person_id" validate:"required,person_id"`
	Age      *int     `json:"age,omitempty" validate:"-"`
	Created  int64    `json:"created" validate:"unix_ts"`
	Updated  int64    `json:"updated" validate:"unix_ts,gtefield=Created"`
}

var (
	createFields = []string{"name", "address", "birth"}
	updateFields = []string{"name", "address", "birth"}
)

// Document returns the stored form of a new person, without the server
// assigned fields
func (p *PersonCreate) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"name":    *p.Name,
		"address": p.Address.document(),
	}
	if p.Birth != nil {
		doc["birth"] = p.Birth.String()
	}
	return doc
}

// Fields returns the stored form of the fields present in the update
func (p *PersonUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Address != nil {
		fields["address"] = p.Address.document()
	}
	if p.Birth != nil {
		fields["birth"] = p.Birth.String()
	}
	return fields
}
