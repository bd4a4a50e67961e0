// Package validate wraps go-playground/validator into a field→message map,
// reporting the first failure per field.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() {
	v = validator.New()
	// Report fields by their JSON name so messages line up with the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct validates all tagged fields of v and returns the first failure
// message per field, keyed by JSON field name. Returns nil when valid.
func Struct(s interface{}) map[string]string {
	return collect(v.Struct(s))
}

// StructExcept validates s while skipping the named struct fields.
func StructExcept(s interface{}, fields ...string) map[string]string {
	return collect(v.StructExcept(s, fields...))
}

func collect(err error) map[string]string {
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must be at least 1 character long", titled(fe.Field()))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", titled(fe.Field()))
	default:
		return fmt.Sprintf("%s is invalid", titled(fe.Field()))
	}
}

func titled(field string) string {
	if field == "imageUrl" {
		return "Image URL"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
