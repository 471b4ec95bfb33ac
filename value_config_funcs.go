package cmdtree

import (
	"reflect"

	"github.com/napalu/cmdtree/validation"
)

// NewValue creates a positional ValueDescriptor displayed as name
func NewValue(name string, configs ...ConfigureValueFunc) (*ValueDescriptor, error) {
	val := &ValueDescriptor{Name: name}
	var err error
	for _, config := range configs {
		config(val, &err)
		if err != nil {
			return nil, err
		}
	}

	return val, nil
}

// AtOrder sets the positional precedence of the value
func AtOrder(order int) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Order = order
	}
}

func WithValueType(t reflect.Type) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Type = t
	}
}

func SetValueRequired(required bool) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Required = required
	}
}

func WithValueDefault(def any) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Default = def
	}
}

func SetValueHidden(hidden bool) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Hidden = hidden
	}
}

func WithValueDescription(description string) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Description = description
	}
}

func WithValueField(field string) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Field = field
	}
}

// WithValueValidators adds checks run against every token bound to the value
func WithValueValidators(validators ...validation.ValidatorFunc) ConfigureValueFunc {
	return func(val *ValueDescriptor, err *error) {
		val.Validators = append(val.Validators, validators...)
	}
}
