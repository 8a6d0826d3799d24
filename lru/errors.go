package lru

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidArgument is the class of every argument error in this package.
	ErrInvalidArgument = errors.New("lru: invalid argument")

	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = fmt.Errorf("%w: capacity must be > 0", ErrInvalidArgument)

	// ErrNilKey is returned when a nil pointer, interface, map, slice,
	// channel or func is used as a key.
	ErrNilKey = fmt.Errorf("%w: nil key", ErrInvalidArgument)
)

// isNilKey reports whether k is a nil value of a nilable kind. Keys of
// other kinds never are.
func isNilKey[K comparable](k K) bool {
	v := reflect.ValueOf(any(k))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
