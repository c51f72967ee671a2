package extsort

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
)

// A Kind represents a class of error.  Callers typically switch on the Kind
// to decide whether an error stems from bad configuration, bad data or the
// storage layer.
type Kind int

const (
	Other Kind = iota
	Invalid
	Encoding
	EmptySequence
	Storage
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Invalid:
		return "invalid configuration"
	case Encoding:
		return "malformed record encoding"
	case EmptySequence:
		return "no more records"
	case Storage:
		return "storage error"
	}
	return "unknown error kind"
}

// Path names the run file an error refers to.
type Path string

type Error struct {
	Kind Kind
	Path Path
	Err  error
}

func pad(b *bytes.Buffer, s string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(s)
}

func (e *Error) Error() string {
	b := &bytes.Buffer{}
	if e.Kind != Other {
		b.WriteString(e.Kind.String())
	}
	if e.Path != "" {
		pad(b, ": ")
		b.WriteString(string(e.Path))
	}
	if e.Err != nil {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an error from any mix of:
// - a Kind
// - a Path
// - an existing error
// - a string and optional formatting verbs, like fmt.Errorf (including
//   support for the `%w` verb).
//
// The string & format verbs must be last in the arguments, if present.
// If the wrapped error is itself an *Error with no explicit Kind given,
// its Kind is inherited.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args to extsort.E")
	}
	e := &Error{}
	kindSet := false
	for i, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
			kindSet = true
		case Path:
			e.Path = arg
		case error:
			e.Err = arg
		case string:
			e.Err = fmt.Errorf(arg, args[i+1:]...)
			return e
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("unknown type %T value %v in extsort.E call at %v:%v", arg, arg, file, line)
		}
	}
	if !kindSet {
		var inner *Error
		if errors.As(e.Err, &inner) {
			e.Kind = inner.Kind
		}
	}
	return e
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == k {
			return true
		}
		err = e.Err
	}
	return false
}

// ErrorPath returns the run file path recorded in err's chain, if any.
func ErrorPath(err error) string {
	var e *Error
	for errors.As(err, &e) {
		if e.Path != "" {
			return string(e.Path)
		}
		err = e.Err
	}
	return ""
}
