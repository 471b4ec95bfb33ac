package cmdtree

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/internal/util"
)

var stringType = reflect.TypeOf("")

// Path returns the identity of the command: its parent's path followed by its name
func (d *CommandDescriptor) Path() string {
	if d.Parent == "" {
		return d.Name
	}

	return d.Parent + " " + d.Name
}

// Matches reports whether tok names this command, either by name or by alias (case-insensitive)
func (d *CommandDescriptor) Matches(tok string) bool {
	f := util.Fold(tok)
	if util.Fold(d.Name) == f {
		return true
	}
	for _, a := range d.Aliases {
		if util.Fold(a) == f {
			return true
		}
	}

	return false
}

// ShapeType returns the struct type of Shape, or nil for untyped commands
func (d *CommandDescriptor) ShapeType() reflect.Type {
	return d.shapeType
}

// Option returns the option declared under name
func (d *CommandDescriptor) Option(name string) (*OptionDescriptor, bool) {
	for _, o := range d.Options {
		if o.Name == name {
			return o, true
		}
	}

	return nil, false
}

// Value returns the positional value declared under name
func (d *CommandDescriptor) Value(name string) (*ValueDescriptor, bool) {
	for _, v := range d.Values {
		if v.Name == name {
			return v, true
		}
	}

	return nil, false
}

func (d *CommandDescriptor) optionByLong(name string) *OptionDescriptor {
	for _, o := range d.Options {
		for _, l := range o.LongAliases {
			if l == name {
				return o
			}
		}
	}

	return nil
}

func (d *CommandDescriptor) optionByShort(r rune) *OptionDescriptor {
	for _, o := range d.Options {
		for _, s := range o.ShortAliases {
			if s == r {
				return o
			}
		}
	}

	return nil
}

// Validate checks the construction invariants of the descriptor and resolves option and value
// types and defaults. It is called by NewCommand and again on registration.
func (d *CommandDescriptor) Validate() error {
	if !util.IsLegalName(d.Name) {
		return fmt.Errorf("%w: command '%s'", errs.ErrInvalidName, d.Name)
	}
	seen := map[string]bool{util.Fold(d.Name): true}
	for _, a := range d.Aliases {
		if !util.IsLegalName(a) {
			return fmt.Errorf("%w: alias '%s' of command '%s'", errs.ErrInvalidName, a, d.Path())
		}
		if seen[util.Fold(a)] {
			return fmt.Errorf("%w: '%s' is declared twice by command '%s'", errs.ErrDuplicateAlias, a, d.Path())
		}
		seen[util.Fold(a)] = true
	}

	d.shapeType = nil
	if d.Shape != nil {
		t := util.UnwrapType(reflect.TypeOf(d.Shape))
		if t.Kind() != reflect.Struct {
			return fmt.Errorf("%w: command '%s' has shape %T", errs.ErrInvalidShape, d.Path(), d.Shape)
		}
		d.shapeType = t
	}

	if err := d.validateOptions(); err != nil {
		return err
	}

	return d.validateValues()
}

func (d *CommandDescriptor) validateOptions() error {
	names := map[string]bool{}
	longs := map[string]bool{}
	shorts := map[rune]bool{}
	for _, o := range d.Options {
		if o == nil {
			return fmt.Errorf("%w: option of command '%s'", errs.ErrNilDescriptor, d.Path())
		}
		if err := o.validate(d.shapeType); err != nil {
			return fmt.Errorf("command '%s': %w", d.Path(), err)
		}
		if names[o.Name] {
			return fmt.Errorf("%w: '%s' in command '%s'", errs.ErrDuplicateOption, o.Name, d.Path())
		}
		names[o.Name] = true
		for _, l := range o.LongAliases {
			if longs[l] {
				return fmt.Errorf("%w: long alias '--%s' in command '%s'", errs.ErrDuplicateOption, l, d.Path())
			}
			longs[l] = true
		}
		for _, s := range o.ShortAliases {
			if shorts[s] {
				return fmt.Errorf("%w: short alias '-%c' in command '%s'", errs.ErrDuplicateOption, s, d.Path())
			}
			shorts[s] = true
		}
	}

	return nil
}

func (d *CommandDescriptor) validateValues() error {
	values := make([]*ValueDescriptor, len(d.Values))
	copy(values, d.Values)
	for _, v := range values {
		if v == nil {
			return fmt.Errorf("%w: value of command '%s'", errs.ErrNilDescriptor, d.Path())
		}
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Order < values[j].Order
	})

	optionalSeen := ""
	for i, v := range values {
		if err := v.validate(d.shapeType); err != nil {
			return fmt.Errorf("command '%s': %w", d.Path(), err)
		}
		if _, found := d.Option(v.Name); found {
			return fmt.Errorf("%w: value '%s' shares its name with an option in command '%s'",
				errs.ErrDuplicateOption, v.Name, d.Path())
		}
		if i > 0 && values[i-1].Order == v.Order {
			return fmt.Errorf("%w: %d used by '%s' and '%s' in command '%s'",
				errs.ErrDuplicateValueOrder, v.Order, values[i-1].Name, v.Name, d.Path())
		}
		if v.Required && optionalSeen != "" {
			return fmt.Errorf("%w: '%s' follows '%s' in command '%s'",
				errs.ErrRequiredAfterOptional, v.Name, optionalSeen, d.Path())
		}
		if !v.Required && optionalSeen == "" {
			optionalSeen = v.Name
		}
		if v.IsEnumerable() && i != len(values)-1 {
			return fmt.Errorf("%w: '%s' in command '%s'", errs.ErrEnumerableNotLast, v.Name, d.Path())
		}
	}
	d.Values = values

	return nil
}

// Longs returns the long option names matched after "--"
func (o *OptionDescriptor) Longs() []string {
	if len(o.LongAliases) == 0 {
		return []string{o.Name}
	}

	return o.LongAliases
}

// IsFlag reports whether the option takes no value token
func (o *OptionDescriptor) IsFlag() bool {
	return util.IsBoolean(o.Type)
}

// IsEnumerable reports whether repeated occurrences accumulate into a collection
func (o *OptionDescriptor) IsEnumerable() bool {
	return util.IsEnumerable(o.Type)
}

// HasDefault reports whether a default value was declared
func (o *OptionDescriptor) HasDefault() bool {
	return o.defaultValue.IsValid()
}

// String returns the option as it is written on the command line
func (o *OptionDescriptor) String() string {
	return "--" + o.Longs()[0]
}

func (o *OptionDescriptor) validate(shape reflect.Type) error {
	if !util.IsLegalOptionName(o.Name) {
		return fmt.Errorf("%w: option '%s'", errs.ErrInvalidName, o.Name)
	}
	if len(o.LongAliases) == 0 {
		o.LongAliases = []string{o.Name}
	}
	for _, l := range o.LongAliases {
		if !util.IsLegalOptionName(l) {
			return fmt.Errorf("%w: long alias '%s' of option '%s'", errs.ErrInvalidName, l, o.Name)
		}
	}
	for _, s := range o.ShortAliases {
		if s == '-' || s == '=' || unicode.IsSpace(s) || unicode.IsControl(s) {
			return fmt.Errorf("%w: short alias %q of option '%s'", errs.ErrInvalidName, s, o.Name)
		}
	}

	t, err := resolveType(o.Type, o.Field, shape)
	if err != nil {
		return fmt.Errorf("option '%s': %w", o.Name, err)
	}
	o.Type = t

	o.defaultValue = reflect.Value{}
	if o.Default != nil {
		v, err := util.ConvertDefault(o.Default, o.Type)
		if err != nil {
			return fmt.Errorf("option '%s': %w", o.Name, err)
		}
		o.defaultValue = v
	}

	return nil
}

// IsEnumerable reports whether the value absorbs all remaining positional tokens
func (v *ValueDescriptor) IsEnumerable() bool {
	return util.IsEnumerable(v.Type)
}

// HasDefault reports whether a default value was declared
func (v *ValueDescriptor) HasDefault() bool {
	return v.defaultValue.IsValid()
}

// String returns the display name of the value
func (v *ValueDescriptor) String() string {
	return strings.ToUpper(v.Name)
}

func (v *ValueDescriptor) validate(shape reflect.Type) error {
	if !util.IsLegalName(v.Name) {
		return fmt.Errorf("%w: value '%s'", errs.ErrInvalidName, v.Name)
	}
	t, err := resolveType(v.Type, v.Field, shape)
	if err != nil {
		return fmt.Errorf("value '%s': %w", v.Name, err)
	}
	v.Type = t

	v.defaultValue = reflect.Value{}
	if v.Default != nil {
		dv, err := util.ConvertDefault(v.Default, v.Type)
		if err != nil {
			return fmt.Errorf("value '%s': %w", v.Name, err)
		}
		v.defaultValue = dv
	}

	return nil
}

// resolveType settles the declared type against the shape field: an undeclared type is taken
// from the field, or string when there is no field.
func resolveType(declared reflect.Type, field string, shape reflect.Type) (reflect.Type, error) {
	if field != "" {
		if shape == nil {
			return nil, fmt.Errorf("%w: '%s' (command has no shape)", errs.ErrUnknownField, field)
		}
		f, ok := util.FieldByName(shape, field)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' on %s", errs.ErrUnknownField, field, shape)
		}
		if declared == nil {
			declared = f.Type
		} else if declared != f.Type {
			return nil, fmt.Errorf("%w: declared %s but field '%s' is %s", errs.ErrUnsupportedType, declared, field, f.Type)
		}
	}
	if declared == nil {
		declared = stringType
	}
	if !util.CanConvert(declared) {
		return nil, fmt.Errorf(errs.FmtErrorWithString, errs.ErrUnsupportedType, declared)
	}

	return declared, nil
}
