package candytask

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// DefaultErrorMessage is returned to clients instead of internal details.
const DefaultErrorMessage = "An internal error has occurred."

// Error carries a machine-readable code, a human-readable message and the
// logical operation that produced it. Err keeps the chain for logging.
type Error struct {
	Code    string
	Message string
	Op      string
	Err     error
	Fields  map[string]interface{}
}

func (e *Error) Error() string {
	var buf bytes.Buffer

	if e.Op != "" {
		fmt.Fprintf(&buf, "%s: ", e.Op)
	}

	if e.Err != nil {
		buf.WriteString(e.Err.Error())
	} else {
		if e.Code != "" {
			fmt.Fprintf(&buf, "<%s> ", e.Code)
		}
		buf.WriteString(e.Message)
	}

	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// OpError annotates err with the operation it failed in.
func OpError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// ErrorWithCode sets code on err when it already is an *Error,
// otherwise wraps it.
func ErrorWithCode(err error, code string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Code = code
		return err
	}

	return &Error{Code: code, Err: err}
}

// ErrorCode returns the code of the innermost *Error that carries one.
func ErrorCode(err error) string {
	var code string

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		if e.Code != "" {
			code = e.Code
		}
		err = e.Err
	}

	return code
}

// ErrorMessage returns the message of the innermost *Error that carries one,
// or DefaultErrorMessage when the chain holds none.
func ErrorMessage(err error) string {
	message := DefaultErrorMessage

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		if e.Message != "" {
			message = e.Message
		}
		err = e.Err
	}

	return message
}

func ErrCodeToHTTPStatus(err *Error) int {
	switch ErrorCode(err) {
	case ECONFLICT:
		return http.StatusConflict
	case EINVALID:
		return http.StatusBadRequest
	case ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
