package errors

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// Register declares a root error under a code that must not be taken yet.
// It panics on a reused code, so call it from package level variables only.
func Register(code uint32, description string) *Error {
	if e, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered: %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// registry holds every root error by code. Code 1 is kept for errors that
// do not wrap a root error.
var registry = map[uint32]*Error{
	internalCode: nil,
}

// Registered returns all root errors ordered by code.
func Registered() []*Error {
	res := make([]*Error, 0, len(registry))
	for _, e := range registry {
		if e != nil {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].code < res[j].code })
	return res
}

// Error is a root error. Every error returned by a program wraps one of
// them, its code is what clients match on.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the code the error was registered with.
func (e Error) Code() uint32 {
	return e.code
}

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is e or wraps e at any depth. A nil root error only
// matches a nil err, including a typed nil pointer.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Wrap adds description in front of the message of err. The innermost wrap
// records a stack trace. A nil err stays nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{
		msg:    description,
		parent: err,
	}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the message for %s, the message and the full stack trace
// for %+v and the message with the point of failure for %v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	io.WriteString(s, e.Error())
	if verb != 'v' {
		return
	}
	st := stackTrace(e.parent)
	switch {
	case len(st) == 0:
	case s.Flag('+'):
		fmt.Fprintf(s, "%+v", st)
	default:
		fmt.Fprintf(s, " [%v]", st[0])
	}
}

// Recover turns a panic into an ErrPanic assigned to err. Use it deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

// isNilErr returns true for nil and for a nil pointer stored in the error
// interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
