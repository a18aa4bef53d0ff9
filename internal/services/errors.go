package services

import "errors"

var (
	ErrValidation            = errors.New("validation error")
	ErrConflict              = errors.New("conflict")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAuthorizationRequired = errors.New("google calendar not connected")
	ErrNotFound              = errors.New("not found")
	ErrInternal              = errors.New("internal error")
	ErrCalendarOperation     = errors.New("calendar operation failed")
	ErrUnavailable           = errors.New("service unavailable")
)

// Error carries a user-facing message alongside its kind (one of the Err*
// sentinels above) and the underlying cause, if any.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func validationError(msg string) error {
	return newError(ErrValidation, msg, nil)
}

func internalError(msg string, cause error) error {
	return newError(ErrInternal, msg, cause)
}
