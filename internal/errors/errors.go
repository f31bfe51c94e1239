package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailycoach/internal/logger"
)

// Kind classifies user-facing failures.
type Kind int

const (
	// KindUnknown is an unclassified internal failure.
	KindUnknown Kind = iota
	// KindValidation is an empty required field, a mismatch, or a malformed value.
	KindValidation
	// KindNotFound covers unknown credentials and missing records.
	KindNotFound
	// KindConflict is a duplicate unique value such as an email.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a classified error with a message safe to show to users.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message so sentinels compare through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

var (
	// ErrInvalidCredentials is returned for any login failure.
	ErrInvalidCredentials = &Error{Kind: KindNotFound, Msg: "invalid credentials"}
	// ErrUserExists is returned when signing up with an email already in use.
	ErrUserExists = &Error{Kind: KindConflict, Msg: "user already exists"}
)

// Validation returns a KindValidation error.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Validationf returns a KindValidation error with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-safe message for err. Unclassified errors get a generic message.
func Message(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
