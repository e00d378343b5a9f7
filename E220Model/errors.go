package E220Model

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ELineFault      ErrorType = "mode line write failed"
	ETransportFault ErrorType = "serial transport fault"
	EDecodeMismatch ErrorType = "payload is not valid text"
	EBadConfig      ErrorType = "bad configuration"
)

type Error struct {
	Err  error
	Type ErrorType
}

func (e *Error) Error() string {
	if nil == e.Err {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fault wraps err with the given type, nil stays nil
func Fault(t ErrorType, err error) error {
	if nil == err {
		return nil
	}
	return &Error{Err: err, Type: t}
}

// IsFault reports whether err carries an Error of type t anywhere in its chain
func IsFault(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Dump formats bytes as upper-case hex pairs, "C0 00 09 "
func Dump(b []byte) string {
	var ret string
	for i := range b {
		c := b[i]
		if 16 > c {
			ret += "0"
		}
		ret += fmt.Sprintf("%X ", c)
	}
	return ret
}
