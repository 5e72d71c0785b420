package callable

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the short machine-readable error kind of the callable protocol.
type Code string

const (
	CodeInvalidArgument  Code = "invalid-argument"
	CodeUnauthenticated  Code = "unauthenticated"
	CodePermissionDenied Code = "permission-denied"
	CodeNotFound         Code = "not-found"
	CodeInternal         Code = "internal"
)

type codeInfo struct {
	status     string
	httpStatus int
}

var codes = map[Code]codeInfo{
	CodeInvalidArgument:  {status: "INVALID_ARGUMENT", httpStatus: http.StatusBadRequest},
	CodeUnauthenticated:  {status: "UNAUTHENTICATED", httpStatus: http.StatusUnauthorized},
	CodePermissionDenied: {status: "PERMISSION_DENIED", httpStatus: http.StatusForbidden},
	CodeNotFound:         {status: "NOT_FOUND", httpStatus: http.StatusNotFound},
	CodeInternal:         {status: "INTERNAL", httpStatus: http.StatusInternalServerError},
}

// Status returns the wire status string, e.g. "PERMISSION_DENIED".
func (c Code) Status() string {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return codes[CodeInternal].status
}

// HTTPStatus returns the HTTP status code the protocol pairs with c.
func (c Code) HTTPStatus() int {
	if info, ok := codes[c]; ok {
		return info.httpStatus
	}
	return http.StatusInternalServerError
}

// CodeForHTTPStatus maps an HTTP status produced by middleware back onto a protocol code.
func CodeForHTTPStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return CodeInvalidArgument
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodePermissionDenied
	case http.StatusNotFound:
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// Error is a classified failure returned to the caller.
type Error struct {
	Code    Code
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a classified error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError returns the classified error carried by err. Anything unclassified
// becomes INTERNAL without its message, so collaborator details never leak by accident.
func AsError(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Code: CodeInternal, Message: "INTERNAL"}
}
