// Package assert provides minimal assert helpers for the tests of this
// project.
package assert

import (
	"reflect"
	"testing"
)

// Nil fails the test if the value is not nil.
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if the two values are not equal.
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant: %+v\n got: %+v", want, got)
	}
}

// Panics runs the function and fails the test if it does not panic.
func Panics(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}

// errKinder is implemented by the registered error kinds of this project.
type errKinder interface {
	Is(error) bool
}

// IsErr fails the test if got does not belong to the want error kind. A nil
// want asserts a nil got.
func IsErr(t testing.TB, want errKinder, got error) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Fatalf("want no error, got %+v", got)
		}
		return
	}
	if !want.Is(got) {
		t.Fatalf("unexpected error kind: %+v", got)
	}
}
