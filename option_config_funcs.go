package cmdtree

import (
	"reflect"

	"github.com/napalu/cmdtree/validation"
)

// NewOption creates an OptionDescriptor named name. The option is fully validated when the
// owning command is, since its type may come from the command's shape.
func NewOption(name string, configs ...ConfigureOptionFunc) (*OptionDescriptor, error) {
	opt := &OptionDescriptor{Name: name}
	if err := opt.Set(configs...); err != nil {
		return nil, err
	}

	return opt, nil
}

// Set configures the OptionDescriptor instance with the provided ConfigureOptionFunc(s),
// and returns an error if a configuration results in an error.
func (o *OptionDescriptor) Set(configs ...ConfigureOptionFunc) error {
	var err error
	for _, config := range configs {
		config(o, &err)
		if err != nil {
			return err
		}
	}

	return nil
}

// WithShortAliases adds single character aliases. Short aliases can be clustered on the command
// line:
//
//	-vf file
//
// is read as -v -f file when v is a boolean option and f takes a value.
func WithShortAliases(shorts ...rune) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.ShortAliases = append(opt.ShortAliases, shorts...)
	}
}

// WithLongAliases replaces the names matched after "--". By default the option name is the only
// long alias.
func WithLongAliases(longs ...string) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.LongAliases = append([]string{}, longs...)
	}
}

// WithDescription the description will be used in usage output presented to the user
func WithDescription(description string) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.Description = description
	}
}

// WithType sets the value type. Boolean types take no value token; slice types accumulate.
func WithType(t reflect.Type) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.Type = t
	}
}

// SetRequired when true, the option must be supplied on the command-line unless it has a default
func SetRequired(required bool) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.Required = required
	}
}

// WithDefault sets the value used when the option is absent. It may be a value of the option's
// type or a string converted like a command-line token.
func WithDefault(def any) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.Default = def
	}
}

// WithHelpOrder sets the sort key of the option in help output
func WithHelpOrder(order int) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.HelpOrder = order
	}
}

// WithField names the shape field receiving the option value
func WithField(field string) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.Field = field
	}
}

// WithValidators adds checks run against every command-line token bound to the option, after
// binding succeeded:
//
//	NewOption("port", WithType(reflect.TypeOf(0)), WithValidators(validation.Port()))
func WithValidators(validators ...validation.ValidatorFunc) ConfigureOptionFunc {
	return func(opt *OptionDescriptor, err *error) {
		opt.Validators = append(opt.Validators, validators...)
	}
}
