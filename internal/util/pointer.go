package util

import (
	"fmt"
	"reflect"
)

// UnwrapValue recursively unwraps pointer and returns the underlying value
// Returns the zero Value if a nil pointer is encountered
func UnwrapValue(v reflect.Value) (reflect.Value, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil pointer encountered")
		}
		v = v.Elem()
	}
	return v, nil
}

// UnwrapType recursively unwraps pointer types and returns the underlying type
func UnwrapType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// FieldByName returns the exported struct field name of t (after unwrapping pointers).
func FieldByName(t reflect.Type, name string) (reflect.StructField, bool) {
	t = UnwrapType(t)
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	f, ok := t.FieldByName(name)
	if !ok || !f.IsExported() {
		return reflect.StructField{}, false
	}

	return f, true
}
