// ABOUTME: Error kinds shared by the store, facades and gateway
// ABOUTME: Sentinels classify failures; Error carries a message plus the low-level cause

package result

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Classify with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
	ErrUpstream     = errors.New("upstream error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified failure. Error() is the user-visible message; the
// kind is reachable through errors.Is and the cause through errors.Unwrap.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns an ErrValidation-class error.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound-class error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps cause as an ErrStorage-class error.
func Storage(cause error, format string, args ...any) error {
	return &Error{Kind: ErrStorage, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Upstream returns an ErrUpstream-class error.
func Upstream(format string, args ...any) error {
	return &Error{Kind: ErrUpstream, Msg: fmt.Sprintf(format, args...)}
}

// Unauthorized returns an ErrUnauthorized-class error.
func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the sentinel kind of err. Unclassified errors are storage errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrUnauthorized, ErrUpstream, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrStorage
}

// FromError converts err into an Err result carrying err's message.
func FromError(err error) Result {
	if err == nil {
		return OK()
	}
	return Err(KindOf(err), err.Error())
}

// StatusForKind maps an error kind to an HTTP status code.
func StatusForKind(kind error) int {
	switch kind {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
