package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alimgiray/peopleapi/internal/apierrors"
)

// fieldConstraints is the constraint table shared by every variant. Struct
// tags reference these aliases instead of repeating the rules, so a variant
// only decides whether a field is required.
var fieldConstraints = map[string]string{
	"person_name":  "min=1",
	"address_line": "min=1",
	"person_id":    "len=36",
	"unix_ts":      "gte=0",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for alias, tags := range fieldConstraints {
		v.RegisterAlias(alias, tags)
	}

	return v
}

// checkConstraints runs the struct tag constraints of s and records the
// failures under prefix. Fields that already carry a violation (e.g. a type
// error from decoding) are not reported twice.
func checkConstraints(s interface{}, prefix string, verr *apierrors.ValidationError) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(prefix, err.Error())
		return
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if prefix != "" {
			field = prefix + "." + field
		}
		if hasViolation(verr, field) {
			continue
		}
		verr.Add(field, constraintMessage(fe))
	}
}

// constraintMessage renders a failed constraint for clients
func constraintMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return msgRequired
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("ensure this value has exactly %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' constraint", fe.ActualTag())
	}
}

func hasViolation(verr *apierrors.ValidationError, field string) bool {
	for _, v := range verr.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}
