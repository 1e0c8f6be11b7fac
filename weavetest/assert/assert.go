// Package assert provides the small set of assertions used across the
// tokenswap tests.
package assert

import (
	"reflect"
	"strings"

	"github.com/iov-one/tokenswap/errors"
)

// Tester is the part of testing.TB the assertions use.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil or a nil pointer, map, slice,
// channel or function. Errors are printed with their stack trace.
func Nil(t Tester, value interface{}) {
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

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or wraps it. A nil want only
// accepts a nil got.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if root, ok := want.(*errors.Error); ok && root.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// ErrCode fails the test unless err resolves to the given code. Use it where
// the caller only sees the code, for example a command line failure.
func ErrCode(t Tester, want uint32, err error) {
	t.Helper()
	if got := errors.Code(err); got != want {
		t.Fatalf("want code %d, got %d: %+v", want, got, err)
	}
}

// Contains fails the test unless every part is found in out.
func Contains(t Tester, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Fatalf("want %q in\n%s", p, out)
		}
	}
}
