package util

import "reflect"

// CopyValue returns a copy of v whose slice backing array is not shared with v, so that
// appending to a bound collection never mutates a default or a prototype.
func CopyValue(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.Kind() != reflect.Slice || v.IsNil() {
		return v
	}
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)

	return out
}

// CopyStruct returns an addressable copy of the struct v with every top-level slice field
// copied with CopyValue.
func CopyStruct(v reflect.Value) reflect.Value {
	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	for i := 0; i < out.NumField(); i++ {
		f := out.Field(i)
		if f.Kind() == reflect.Slice && f.CanSet() {
			f.Set(CopyValue(f))
		}
	}

	return out
}
