package cmdtree

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/validation"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML form of a command tree:
//
//	commands:
//	  - name: remote
//	    description: manage remotes
//	    commands:
//	      - name: add
//	        executable: true
//	        options:
//	          - name: fetch
//	            short: [f]
//	            type: bool
//	          - name: port
//	            type: int
//	            validate: port
//	        values:
//	          - name: name
//	            order: 0
//	            required: true
type Manifest struct {
	Commands []ManifestCommand `yaml:"commands"`
}

type ManifestCommand struct {
	Name        string            `yaml:"name"`
	Aliases     []string          `yaml:"aliases"`
	Description string            `yaml:"description"`
	Default     bool              `yaml:"default"`
	Executable  bool              `yaml:"executable"`
	Hidden      bool              `yaml:"hidden"`
	HelpOrder   int               `yaml:"help-order"`
	Options     []ManifestOption  `yaml:"options"`
	Values      []ManifestValue   `yaml:"values"`
	Commands    []ManifestCommand `yaml:"commands"`
}

type ManifestOption struct {
	Name        string   `yaml:"name"`
	Short       []string `yaml:"short"`
	Long        []string `yaml:"long"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Default     any      `yaml:"default"`
	HelpOrder   int      `yaml:"help-order"`
	Validate    string   `yaml:"validate"`
}

type ManifestValue struct {
	Name        string `yaml:"name"`
	Order       int    `yaml:"order"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Default     any    `yaml:"default"`
	Hidden      bool   `yaml:"hidden"`
	Validate    string `yaml:"validate"`
}

var manifestTypes = map[string]reflect.Type{
	"":         reflect.TypeOf(""),
	"string":   reflect.TypeOf(""),
	"bool":     reflect.TypeOf(false),
	"int":      reflect.TypeOf(0),
	"int8":     reflect.TypeOf(int8(0)),
	"int16":    reflect.TypeOf(int16(0)),
	"int32":    reflect.TypeOf(int32(0)),
	"int64":    reflect.TypeOf(int64(0)),
	"uint":     reflect.TypeOf(uint(0)),
	"uint8":    reflect.TypeOf(uint8(0)),
	"uint16":   reflect.TypeOf(uint16(0)),
	"uint32":   reflect.TypeOf(uint32(0)),
	"uint64":   reflect.TypeOf(uint64(0)),
	"float32":  reflect.TypeOf(float32(0)),
	"float64":  reflect.TypeOf(float64(0)),
	"duration": reflect.TypeOf(time.Duration(0)),
	"time":     reflect.TypeOf(time.Time{}),
}

// LoadManifest decodes a YAML manifest into validated descriptors, parents before children.
// Nested commands get their Parent path from their position in the tree.
func LoadManifest(r io.Reader) ([]*CommandDescriptor, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidManifest, err)
	}

	var out []*CommandDescriptor
	for _, c := range m.Commands {
		descs, err := c.descriptors("")
		if err != nil {
			return nil, err
		}
		out = append(out, descs...)
	}

	return out, nil
}

func (c ManifestCommand) descriptors(parent string) ([]*CommandDescriptor, error) {
	desc := &CommandDescriptor{
		Name:        c.Name,
		Parent:      parent,
		Aliases:     c.Aliases,
		Description: c.Description,
		IsDefault:   c.Default,
		Executable:  c.Executable,
		Hidden:      c.Hidden,
		HelpOrder:   c.HelpOrder,
	}
	for _, o := range c.Options {
		opt, err := o.descriptor()
		if err != nil {
			return nil, fmt.Errorf("%w: command '%s': %w", errs.ErrInvalidManifest, desc.Path(), err)
		}
		desc.Options = append(desc.Options, opt)
	}
	for _, v := range c.Values {
		t, err := manifestType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: command '%s' value '%s': %w", errs.ErrInvalidManifest, desc.Path(), v.Name, err)
		}
		validators, err := manifestValidators(v.Validate)
		if err != nil {
			return nil, fmt.Errorf("%w: command '%s' value '%s': %w", errs.ErrInvalidManifest, desc.Path(), v.Name, err)
		}
		desc.Values = append(desc.Values, &ValueDescriptor{
			Name:        v.Name,
			Order:       v.Order,
			Type:        t,
			Required:    v.Required,
			Default:     manifestDefault(v.Default),
			Hidden:      v.Hidden,
			Description: v.Description,
			Validators:  validators,
		})
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	out := []*CommandDescriptor{desc}
	for _, child := range c.Commands {
		descs, err := child.descriptors(desc.Path())
		if err != nil {
			return nil, err
		}
		out = append(out, descs...)
	}

	return out, nil
}

func (o ManifestOption) descriptor() (*OptionDescriptor, error) {
	t, err := manifestType(o.Type)
	if err != nil {
		return nil, fmt.Errorf("option '%s': %w", o.Name, err)
	}
	validators, err := manifestValidators(o.Validate)
	if err != nil {
		return nil, fmt.Errorf("option '%s': %w", o.Name, err)
	}
	opt := &OptionDescriptor{
		Name:        o.Name,
		LongAliases: o.Long,
		Description: o.Description,
		Type:        t,
		Required:    o.Required,
		Default:     manifestDefault(o.Default),
		HelpOrder:   o.HelpOrder,
		Validators:  validators,
	}
	for _, s := range o.Short {
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("option '%s': short alias '%s' must be a single character", o.Name, s)
		}
		opt.ShortAliases = append(opt.ShortAliases, r[0])
	}

	return opt, nil
}

func manifestValidators(spec string) ([]validation.ValidatorFunc, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	v, err := validation.Parse(spec)
	if err != nil {
		return nil, err
	}

	return []validation.ValidatorFunc{v}, nil
}

// manifestType maps a type name such as "int" or "[]duration" to its reflect.Type
func manifestType(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)
	elem := strings.TrimPrefix(name, "[]")
	t, found := manifestTypes[elem]
	if !found || (elem == "" && name != "") {
		return nil, fmt.Errorf(errs.FmtErrorWithString, errs.ErrUnsupportedType, name)
	}
	if elem != name {
		return reflect.SliceOf(t), nil
	}

	return t, nil
}

// manifestDefault turns YAML scalars and sequences into the string forms ConvertDefault accepts
func manifestDefault(v any) any {
	switch d := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(d))
		for _, e := range d {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return fmt.Sprint(d)
	}
}

// RegisterManifest registers descs in order, looking up each command's executor by path.
// Registration stops at the first error; commands registered before it are kept.
func (a *App) RegisterManifest(descs []*CommandDescriptor, executors map[string]Executor) error {
	for _, d := range descs {
		if _, err := a.registry.Register(d, executors[d.Path()]); err != nil {
			return err
		}
	}

	return nil
}
