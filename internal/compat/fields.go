package compat

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

var errFieldAbsent = errors.New("internal field is absent")

// getField returns a settable view of the named, possibly unexported, field of the struct that
// target points to.
func getField(target interface{}, name string) (reflect.Value, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("cannot access field %s of %T: not a non-nil pointer", name, target)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("cannot access field %s of %T: not a struct", name, target)
	}
	f := v.FieldByName(name)
	if !f.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", errFieldAbsent, v.Type(), name)
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem(), nil
}

// setField assigns value to the named field. A nil value sets the field to its zero value.
func setField(target interface{}, name string, value interface{}) error {
	f, err := getField(target, name)
	if err != nil {
		return err
	}
	val := reflect.ValueOf(value)
	if !val.IsValid() {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	if !val.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("cannot assign %s to field %s of type %s", val.Type(), name, f.Type())
	}
	f.Set(val)
	return nil
}
