package apperr

import (
	"errors"
	"net/http"
)

// Error carries the HTTP status a failure maps to and the message shown to the caller.
type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Code: http.StatusConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf returns the HTTP status for err, 500 for anything unclassified.
func CodeOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}
