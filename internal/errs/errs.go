// internal/errs/errs.go
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the tool wraps exactly one of these,
// except capability errors coming from the ARP backend, which are returned
// as they are.
var (
	ErrNotEnough      = errors.New("not enough")
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidOption  = errors.New("invalid option")
	ErrParse          = errors.New("parse error")
	ErrTooMany        = errors.New("too many")
	ErrThreadJoin     = errors.New("thread join")
)

// NotEnough reports a missing required value.
func NotEnough(format string, args ...any) error {
	return wrap(ErrNotEnough, format, args...)
}

func InvalidCommand(format string, args ...any) error {
	return wrap(ErrInvalidCommand, format, args...)
}

func InvalidOption(format string, args ...any) error {
	return wrap(ErrInvalidOption, format, args...)
}

func Parse(format string, args ...any) error {
	return wrap(ErrParse, format, args...)
}

// TooManyWorkers builds the error returned when a caller asks for more
// workers than the operation can use.
func TooManyWorkers(requested, max uint64) error {
	return wrap(ErrTooMany, "Too many threads max is %d (%d > %d)", max, requested, max)
}

// ThreadJoin wraps the value recovered from a worker that did not return normally.
func ThreadJoin(worker int, recovered any) error {
	if s, ok := recovered.(string); ok {
		return wrap(ErrThreadJoin, "Can't join thread %d due to %q", worker, s)
	}
	if err, ok := recovered.(error); ok {
		return wrap(ErrThreadJoin, "Can't join thread %d due to %q", worker, err.Error())
	}
	return wrap(ErrThreadJoin, "Can't join thread %d due to unknown error", worker)
}

// Kind returns the sentinel wrapped by err, or nil for foreign errors.
func Kind(err error) error {
	for _, k := range []error{ErrNotEnough, ErrInvalidCommand, ErrInvalidOption, ErrParse, ErrTooMany, ErrThreadJoin} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
