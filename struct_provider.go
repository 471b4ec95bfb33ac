package cmdtree

import (
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/internal/util"
	"github.com/napalu/cmdtree/parse"
	"github.com/napalu/cmdtree/types"
	"github.com/napalu/cmdtree/validation"
)

// NameConversionFunc converts a struct field name to an option or value name
type NameConversionFunc func(string) string

// DefaultNameConverter names untagged fields, "DryRun" becomes "dry-run"
var DefaultNameConverter NameConversionFunc = strcase.ToKebab

// DescribeStruct derives an executable CommandDescriptor named name from the `cli` struct tags of
// prototype, which also becomes the command's shape:
//
//	type Build struct {
//		Target  string   `cli:"short:t;desc:target platform;required:true;validate:isoneof(linux,darwin)"`
//		Tags    []string `cli:"name:tag;short:T"`
//		Verbose bool
//		Files   []string `cli:"pos:0;name:file"`
//		cache   string
//		Secret  string   `cli:"-"`
//	}
//
// Exported fields without a tag become options named by DefaultNameConverter when their type is
// supported; unexported fields and fields tagged `cli:"-"` are skipped. configs are applied after
// the fields were described, so they can override anything derived here.
func DescribeStruct(name string, prototype any, configs ...ConfigureCommandFunc) (*CommandDescriptor, error) {
	if prototype == nil {
		return nil, fmt.Errorf("%w: nil prototype for command '%s'", errs.ErrInvalidShape, name)
	}
	t := util.UnwrapType(reflect.TypeOf(prototype))
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: command '%s' has shape %T", errs.ErrInvalidShape, name, prototype)
	}

	cmd := &CommandDescriptor{Name: name, Shape: prototype, Executable: true}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		config, skip, err := parse.Field(field)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		if config == nil {
			if field.Anonymous || !util.CanConvert(field.Type) {
				continue
			}
			config = &types.TagConfig{Kind: types.KindOption}
		}

		validators, err := tagValidators(field, config)
		if err != nil {
			return nil, err
		}
		switch config.Kind {
		case types.KindValue:
			val := valueFromTag(field, config)
			val.Validators = validators
			cmd.Values = append(cmd.Values, val)
		default:
			opt := optionFromTag(field, config)
			opt.Validators = validators
			cmd.Options = append(cmd.Options, opt)
		}
	}

	if err := cmd.Set(configs...); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return cmd, nil
}

func tagValidators(field reflect.StructField, config *types.TagConfig) ([]validation.ValidatorFunc, error) {
	if config.Validate == "" {
		return nil, nil
	}
	v, err := validation.Parse(config.Validate)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %w", errs.ErrInvalidTag, field.Name, err)
	}

	return []validation.ValidatorFunc{v}, nil
}

func optionFromTag(field reflect.StructField, config *types.TagConfig) *OptionDescriptor {
	opt := &OptionDescriptor{
		Name:         config.Name(),
		ShortAliases: config.Short,
		Description:  config.Description,
		Type:         field.Type,
		Required:     config.Required,
		HelpOrder:    config.HelpOrder,
		Field:        field.Name,
	}
	if opt.Name == "" {
		opt.Name = DefaultNameConverter(field.Name)
	}
	if len(config.Names) > 0 {
		opt.LongAliases = config.Names
	}
	if config.Default != nil {
		opt.Default = *config.Default
	}

	return opt
}

func valueFromTag(field reflect.StructField, config *types.TagConfig) *ValueDescriptor {
	val := &ValueDescriptor{
		Name:        config.Name(),
		Order:       *config.Position,
		Type:        field.Type,
		Required:    config.Required,
		Hidden:      config.Hidden,
		Description: config.Description,
		Field:       field.Name,
	}
	if val.Name == "" {
		val.Name = DefaultNameConverter(field.Name)
	}
	if config.Default != nil {
		val.Default = *config.Default
	}

	return val
}
