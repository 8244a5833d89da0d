package token

import (
	"errors"
	"fmt"
)

// ErrorCode represents token error categories.
type ErrorCode string

const (
	ErrCodeMalformed ErrorCode = "malformed_token"
	ErrCodeDecode    ErrorCode = "decode_error"
	ErrCodeExpired   ErrorCode = "token_expired"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrDecode         = errors.New("could not decode token payload")
	ErrExpired        = errors.New("token expired")
)

var errorMessages = map[ErrorCode]string{
	ErrCodeMalformed: "Malformed token",
	ErrCodeDecode:    "Could not decode token",
	ErrCodeExpired:   "Token expired",
}

var errorSentinels = map[ErrorCode]error{
	ErrCodeMalformed: ErrMalformedToken,
	ErrCodeDecode:    ErrDecode,
	ErrCodeExpired:   ErrExpired,
}

// Error wraps token errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching the error code.
func (e *Error) Is(target error) bool {
	sentinel, ok := errorSentinels[e.Code]
	return ok && sentinel == target
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}
