package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rental-backend/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	ConfigureValidator(v)
	return v
}

// ConfigureValidator makes v report fields under their JSON names and
// registers the domain rules. gin's binding engine goes through it too.
func ConfigureValidator(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("property_type", func(fl validator.FieldLevel) bool {
		return models.PropertyType(fl.Field().String()).Valid()
	})
}

// validateEntity runs the struct tags of a model and turns failures into a
// field-level validation error.
func validateEntity(entity interface{}) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	fields, ok := ValidationFields(err)
	if !ok {
		return fmt.Errorf("validate %T: %w", entity, err)
	}
	return fieldErrors(fields)
}

// ValidationFields converts validator failures into field messages. ok is
// false when err did not come from the validator.
func ValidationFields(err error) (fields map[string]string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = describeFieldError(fe)
		}
	}
	return fields, true
}

func describeFieldError(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "uuid":
		return "Must be a valid UUID."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	case "ltefield":
		return "Minimum nights cannot exceed maximum nights."
	case "latitude":
		return "Enter a valid latitude."
	case "longitude":
		return "Enter a valid longitude."
	case "property_type":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}
