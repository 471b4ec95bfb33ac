package util

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/napalu/cmdtree/errs"
)

var (
	timeType        = reflect.TypeOf(time.Time{})
	durationType    = reflect.TypeOf(time.Duration(0))
	textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// IsBoolean reports whether t is bool-kinded. Boolean options take no value token.
func IsBoolean(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Bool
}

// IsEnumerable reports whether t accumulates repeated occurrences: any slice type that does not
// unmarshal itself from a single token (net.IP for instance).
func IsEnumerable(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Slice && !reflect.PointerTo(t).Implements(textUnmarshaler)
}

// ElementType returns the type a single command-line token converts to: the element type of
// enumerable types, t itself otherwise.
func ElementType(t reflect.Type) reflect.Type {
	if IsEnumerable(t) {
		return t.Elem()
	}

	return t
}

// CanConvert reports whether ConvertString supports t (or, for slices, its element type).
func CanConvert(t reflect.Type) bool {
	if t == nil {
		return false
	}
	t = ElementType(t)
	if t == timeType || t == durationType {
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshaler) {
		return true
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}

	return false
}

// ConvertString converts a single raw token to a value of type t. For enumerable types the
// token is converted to the element type; the caller appends the result.
func ConvertString(value string, t reflect.Type) (reflect.Value, error) {
	t = ElementType(t)
	out := reflect.New(t).Elem()

	if t == timeType {
		val, err := dateparse.ParseLocal(value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrParseTime, value)
		}
		out.Set(reflect.ValueOf(val))
		return out, nil
	}
	if t == durationType {
		val, err := time.ParseDuration(value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrParseDuration, value)
		}
		out.SetInt(int64(val))
		return out, nil
	}
	if ptr := reflect.New(t); ptr.Type().Implements(textUnmarshaler) {
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %s: %v", errs.ErrParseText, value, err)
		}
		return ptr.Elem(), nil
	}

	switch t.Kind() {
	case reflect.String:
		out.SetString(value)
	case reflect.Bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrParseBool, value)
		}
		out.SetBool(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(value, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrParseInt, value)
		}
		out.SetInt(val)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(value, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrParseUint, value)
		}
		out.SetUint(val)
	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrParseFloat, value)
		}
		out.SetFloat(val)
	default:
		return reflect.Value{}, fmt.Errorf(errs.FmtErrorWithString, errs.ErrUnsupportedType, t)
	}

	return out, nil
}

// ConvertDefault turns a declared default into a value of type t. Strings are converted with
// ConvertString (for enumerable types each string element is converted); any other value must be
// assignable to t.
func ConvertDefault(def any, t reflect.Type) (reflect.Value, error) {
	if def == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil default for %s", errs.ErrInvalidDefault, t)
	}
	dv := reflect.ValueOf(def)
	if dv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(dv)
		return CopyValue(out), nil
	}

	switch d := def.(type) {
	case string:
		if IsEnumerable(t) {
			elem, err := ConvertString(d, t)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", errs.ErrInvalidDefault, err)
			}
			return reflect.Append(reflect.MakeSlice(t, 0, 1), elem), nil
		}
		v, err := ConvertString(d, t)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", errs.ErrInvalidDefault, err)
		}
		return v, nil
	case []string:
		if !IsEnumerable(t) {
			break
		}
		out := reflect.MakeSlice(t, 0, len(d))
		for _, s := range d {
			elem, err := ConvertString(s, t)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", errs.ErrInvalidDefault, err)
			}
			out = reflect.Append(out, elem)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %T is not assignable to %s", errs.ErrInvalidDefault, def, t)
}
