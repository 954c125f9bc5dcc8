package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes forming the client error taxonomy.
const (
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeNetworkUnreachable = "NETWORK_UNREACHABLE"
	CodeServerFault        = "SERVER_FAULT"
	CodeUnclassified       = "UNCLASSIFIED"
	CodeMalformedToken     = "MALFORMED_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
)

// Default user-facing messages.
const (
	MsgSessionExpired     = "Session expired. Please log in again."
	MsgForbidden          = "Access to this resource is denied."
	MsgNotFound           = "The requested resource was not found."
	MsgNetworkUnreachable = "Unable to reach the server. Check your connection."
	MsgServerFault        = "Internal server error. Please try again later."
	MsgUnclassified       = "An unexpected error occurred."
	MsgInvalidCredentials = "Invalid login or password."
)

// DomainError standardizes errors surfaced to the client's callers.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewSessionExpired(cause error) error {
	return &DomainError{Code: CodeSessionExpired, Message: MsgSessionExpired, HTTPStatus: http.StatusUnauthorized, Err: cause}
}

func NewForbidden(message string) error {
	if message == "" {
		message = MsgForbidden
	}
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewNotFound(resource string) error {
	message := MsgNotFound
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewDomainError(CodeNotFound, message, http.StatusNotFound, nil)
}

func NewNetworkUnreachable(cause error) error {
	return &DomainError{Code: CodeNetworkUnreachable, Message: MsgNetworkUnreachable, HTTPStatus: http.StatusBadGateway, Err: cause}
}

func NewServerFault() error {
	return NewDomainError(CodeServerFault, MsgServerFault, http.StatusInternalServerError, nil)
}

// NewUnclassified keeps the upstream status; an empty message falls back to
// the generic one.
func NewUnclassified(status int, message string) error {
	if message == "" {
		message = MsgUnclassified
	}
	return NewDomainError(CodeUnclassified, message, status, nil)
}

func NewMalformedToken(cause error) error {
	return &DomainError{Code: CodeMalformedToken, Message: MsgSessionExpired, HTTPStatus: http.StatusUnauthorized, Err: cause}
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, MsgInvalidCredentials, http.StatusUnauthorized, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf returns the taxonomy code of err, or "" when err is not a DomainError.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
