package parse

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/types"
)

// TagName is the struct tag key read by the struct metadata provider
const TagName = "cli"

// Common error messages
const (
	errEmptyInput     = "empty %s in field %s"
	errInvalidFormat  = "invalid tag format in field %s: %s"
	errUnknownKey     = "unrecognized key '%s' in field %s"
	errInvalidBoolKey = "invalid '%s' value in field %s: %v"
)

// Field returns the parsed `cli` tag of field. The second return value is false when the field
// carries no tag or is explicitly skipped with `cli:"-"`; skip distinguishes the two.
func Field(field reflect.StructField) (config *types.TagConfig, skip bool, err error) {
	tag, ok := field.Tag.Lookup(TagName)
	if !ok {
		return nil, false, nil
	}
	if tag == "-" {
		return nil, true, nil
	}

	config, err = UnmarshalTagFormat(tag, field)
	return config, false, err
}

// UnmarshalTagFormat parses a tag of the form
//
//	kind:option;name:target,tgt;short:t;desc:build target;required:true;default:linux
//	kind:option;name:port;validate:port
//	kind:value;name:FILE;pos:0;validate:fileext(.yaml,.yml)
//
// Keys are separated by ';' and values follow the first ':'. Descriptions may contain ':'.
func UnmarshalTagFormat(tag string, field reflect.StructField) (*types.TagConfig, error) {
	config := &types.TagConfig{}
	if strings.TrimSpace(tag) == "" {
		return config, nil
	}

	for _, part := range strings.Split(tag, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, value, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("%w: "+errInvalidFormat, errs.ErrInvalidTag, field.Name, part)
		}
		key = strings.TrimSpace(key)

		switch key {
		case "kind":
			switch types.Kind(value) {
			case types.KindOption, types.KindValue, types.KindEmpty:
				config.Kind = types.Kind(value)
			default:
				return nil, fmt.Errorf("%w: invalid kind in field %s: %s (must be 'option', 'value', or empty)",
					errs.ErrInvalidTag, field.Name, value)
			}
		case "name":
			names, err := list(value, "name", field.Name)
			if err != nil {
				return nil, err
			}
			config.Names = names
		case "short":
			shorts, err := list(value, "short", field.Name)
			if err != nil {
				return nil, err
			}
			for _, s := range shorts {
				r := []rune(s)
				if len(r) != 1 {
					return nil, fmt.Errorf("%w: short alias '%s' in field %s must be a single character",
						errs.ErrInvalidTag, s, field.Name)
				}
				config.Short = append(config.Short, r[0])
			}
		case "desc":
			config.Description = value
		case "default":
			v := value
			config.Default = &v
		case "required":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%w: "+errInvalidBoolKey, errs.ErrInvalidTag, key, field.Name, err)
			}
			config.Required = b
		case "hidden":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%w: "+errInvalidBoolKey, errs.ErrInvalidTag, key, field.Name, err)
			}
			config.Hidden = b
		case "pos":
			idx, err := position(value, field.Name)
			if err != nil {
				return nil, err
			}
			config.Position = &idx
		case "validate":
			v := strings.TrimSpace(value)
			if v == "" {
				return nil, fmt.Errorf("%w: "+errEmptyInput, errs.ErrInvalidTag, "validate", field.Name)
			}
			config.Validate = v
		case "order":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid help order '%s' in field %s", errs.ErrInvalidTag, value, field.Name)
			}
			config.HelpOrder = n
		default:
			return nil, fmt.Errorf("%w: "+errUnknownKey, errs.ErrInvalidTag, key, field.Name)
		}
	}

	if config.Kind == types.KindEmpty {
		if config.Position != nil {
			config.Kind = types.KindValue
		} else {
			config.Kind = types.KindOption
		}
	}
	if config.Kind == types.KindValue && config.Position == nil {
		return nil, fmt.Errorf("%w: value field %s has no 'pos'", errs.ErrInvalidTag, field.Name)
	}
	if config.Kind == types.KindValue && len(config.Short) > 0 {
		return nil, fmt.Errorf("%w: value field %s cannot declare short aliases", errs.ErrInvalidTag, field.Name)
	}

	return config, nil
}

func list(value, key, fieldName string) ([]string, error) {
	var out []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("%w: "+errEmptyInput, errs.ErrInvalidTag, key, fieldName)
		}
		out = append(out, v)
	}

	return out, nil
}

func position(value, fieldName string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: "+errEmptyInput, errs.ErrInvalidTag, "position", fieldName)
	}
	idx, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid position value '%s' in field %s", errs.ErrInvalidTag, value, fieldName)
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: position must be non-negative in field %s", errs.ErrInvalidTag, fieldName)
	}

	return idx, nil
}
