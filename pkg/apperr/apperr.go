package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error into the closed taxonomy used
// across the service layer. Every Kind maps to a stable machine code
// and an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindAuthenticationFailed
	KindTokenExpired
	KindBusinessRule
	KindDuplicateResource
	KindDataIntegrity
)

var kindCodes = map[Kind]string{
	KindInternal:             "9000",
	KindBadRequest:           "1000",
	KindValidation:           "1100",
	KindNotFound:             "1001",
	KindUnauthorized:         "2000",
	KindForbidden:            "2001",
	KindAuthenticationFailed: "2002",
	KindTokenExpired:         "2003",
	KindBusinessRule:         "3000",
	KindDuplicateResource:    "3001",
	KindDataIntegrity:        "4000",
}

var kindLabels = map[Kind]string{
	KindInternal:             "error.internal",
	KindBadRequest:           "error.bad_request",
	KindValidation:           "error.validation",
	KindNotFound:             "error.not_found",
	KindUnauthorized:         "error.unauthorized",
	KindForbidden:            "error.forbidden",
	KindAuthenticationFailed: "error.authentication_failed",
	KindTokenExpired:         "error.token_expired",
	KindBusinessRule:         "error.business_rule",
	KindDuplicateResource:    "error.duplicate_resource",
	KindDataIntegrity:        "error.data_integrity",
}

var kindStatuses = map[Kind]int{
	KindInternal:             http.StatusInternalServerError,
	KindBadRequest:           http.StatusBadRequest,
	KindValidation:           http.StatusBadRequest,
	KindNotFound:             http.StatusNotFound,
	KindUnauthorized:         http.StatusUnauthorized,
	KindForbidden:            http.StatusForbidden,
	KindAuthenticationFailed: http.StatusUnauthorized,
	KindTokenExpired:         http.StatusUnauthorized,
	KindBusinessRule:         http.StatusConflict,
	KindDuplicateResource:    http.StatusConflict,
	KindDataIntegrity:        http.StatusConflict,
}

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return kindCodes[KindInternal]
}

// Label returns the wire label for the kind (the "error" field).
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return kindLabels[KindInternal]
}

// HTTPStatus returns the HTTP status the kind maps to.
func (k Kind) HTTPStatus() int {
	if s, ok := kindStatuses[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the tagged error type returned by services. Details carries
// optional structured context (e.g. per-field validation messages).
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a tagged error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a tagged error preserving the underlying cause for logs.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetails attaches structured details and returns the same error.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for the common kinds.

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func BadRequest(message string) *Error   { return New(KindBadRequest, message) }
func Validation(message string) *Error   { return New(KindValidation, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func AuthFailed(message string) *Error   { return New(KindAuthenticationFailed, message) }
func TokenExpired(message string) *Error { return New(KindTokenExpired, message) }
func BusinessRule(message string) *Error { return New(KindBusinessRule, message) }
func Duplicate(message string) *Error    { return New(KindDuplicateResource, message) }

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// From extracts the tagged error or downgrades anything unrecognized to
// an internal error so unexpected failures never leak to clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, "internal server error", err)
}

// IsKind reports whether err is tagged with the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
