package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountRemoved     = errors.New("account has been removed")
	ErrNilUser            = errors.New("user is nil")
	ErrNilListing         = errors.New("listing is nil")
	ErrNilMessage         = errors.New("message is nil")
	ErrListingNotFound    = errors.New("listing not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrForbidden          = errors.New("forbidden")
	ErrBlocked            = errors.New("you are blocked by this user")
	ErrInsufficientCoins  = errors.New("insufficient coins")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// Invalid wraps ErrInvalidInput with a message that is safe to show to the client.
func Invalid(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

func (e *InputError) Unwrap() error { return ErrInvalidInput }
