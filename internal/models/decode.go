package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/alimgiray/peopleapi/internal/apierrors"
)

const (
	msgRequired      = "field required"
	msgExtra         = "extra fields not permitted"
	msgMinProperties = "at least one property is required"
	msgNotObject     = "value is not a valid dict"
	msgNotString     = "str type expected"
	msgInvalidDate   = "invalid date format"
)

// bodyField names violations that concern the payload as a whole
const bodyField = "body"

// DecodePersonCreate decodes a client payload into a PersonCreate. It fails
// with a *apierrors.ValidationError listing every violation.
func DecodePersonCreate(body []byte) (*PersonCreate, error) {
	verr := &apierrors.ValidationError{}
	create := &PersonCreate{}

	fields, ok := decodeObject(body, bodyField, createFields, verr)
	if !ok {
		return nil, verr
	}

	if name, ok := decodeString(fields, "name", "", verr); ok {
		create.Name = name
	}
	create.Address = decodeAddressField(fields, verr)
	create.Birth = decodeDate(fields, "birth", verr)

	checkConstraints(create, "", verr)
	if create.Address == nil && !hasViolation(verr, "address") {
		verr.Add("address", msgRequired)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return create, nil
}

// DecodePersonUpdate decodes a client payload into a PersonUpdate. Every
// field is optional but the payload must have at least one property.
func DecodePersonUpdate(body []byte) (*PersonUpdate, error) {
	verr := &apierrors.ValidationError{}
	update := &PersonUpdate{}

	fields, ok := decodeObject(body, bodyField, updateFields, verr)
	if !ok {
		return nil, verr
	}

	if name, ok := decodeString(fields, "name", "", verr); ok {
		update.Name = name
	}
	update.Address = decodeAddressField(fields, verr)
	update.Birth = decodeDate(fields, "birth", verr)

	checkConstraints(update, "", verr)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return update, nil
}

// decodeObject splits a JSON object into its raw properties. Empty objects
// and properties not in allowed are violations. The returned bool is false
// when the value is not an object or has no properties at all.
func decodeObject(data []byte, path string, allowed []string, verr *apierrors.ValidationError) (map[string]json.RawMessage, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		verr.Add(path, msgNotObject)
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		verr.Add(path, msgNotObject)
		return nil, false
	}

	if len(fields) == 0 {
		verr.Add(path, msgMinProperties)
		return nil, false
	}

	// Report unknown properties in a stable order
	var unknown []string
	for key := range fields {
		if !contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		verr.Add(joinPath(path, key), msgExtra)
	}

	return fields, true
}

// decodeString decodes an optional string property, trimming surrounding
// whitespace. JSON numbers are accepted and kept in their textual form. A
// missing or null property yields (nil, true).
func decodeString(fields map[string]json.RawMessage, key, prefix string, verr *apierrors.ValidationError) (*string, bool) {
	raw, present := fields[key]
	if !present || isNull(raw) {
		return nil, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(raw, &n); numErr != nil {
			verr.Add(joinPath(prefix, key), msgNotString)
			return nil, false
		}
		s = n.String()
	}

	s = strings.TrimSpace(s)
	return &s, true
}

// decodeDate decodes an optional date property
func decodeDate(fields map[string]json.RawMessage, key string, verr *apierrors.ValidationError) *Date {
	raw, present := fields[key]
	if !present || isNull(raw) {
		return nil
	}

	var d Date
	if err := json.Unmarshal(raw, &d); err != nil {
		verr.Add(key, msgInvalidDate)
		return nil
	}
	return &d
}

// decodeAddressField decodes the optional "address" property. The address
// itself is strict: all its fields are required and no others are allowed.
func decodeAddressField(fields map[string]json.RawMessage, verr *apierrors.ValidationError) *Address {
	const key = "address"

	raw, present := fields[key]
	if !present || isNull(raw) {
		return nil
	}

	addressFieldsRaw, ok := decodeObject(raw, key, addressFields, verr)
	if !ok {
		return nil
	}

	address := &Address{}
	targets := map[string]*string{
		"street":   &address.Street,
		"city":     &address.City,
		"state":    &address.State,
		"zip_code": &address.ZipCode,
	}
	for _, field := range addressFields {
		if value, ok := decodeString(addressFieldsRaw, field, key, verr); ok && value != nil {
			*targets[field] = *value
		}
	}

	checkConstraints(address, key, verr)
	return address
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func joinPath(prefix, key string) string {
	if prefix == "" || prefix == bodyField {
		return key
	}
	return prefix + "." + key
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
