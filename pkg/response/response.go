package response

import (
	"errors"
)

// Error is a typed domain error: services return sentinel instances
// declared in each domain's error.go (auth, exam, verification) and the
// central handler maps Code straight to the HTTP status.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Is matches two Errors by code and message, which lets errors.Is compare
// against the domain sentinels without pointer identity.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}
