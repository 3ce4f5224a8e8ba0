package exchange

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindTransport covers network errors, timeouts and non-2xx HTTP replies.
	KindTransport ErrorKind = iota + 1
	// KindApplication is a well-formed reply whose envelope code is not success.
	KindApplication
)

// Error is what every client operation returns on failure, keeping the
// upstream code/message around for the operator notification.
type Error struct {
	Kind ErrorKind
	Op   string
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindApplication:
		return fmt.Sprintf("bitget %s: code=%s msg=%s", e.Op, e.Code, e.Msg)
	default:
		return fmt.Sprintf("bitget %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func IsApplication(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindApplication
}

func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport
}
