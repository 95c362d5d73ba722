package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrTooLarge indicates the upload exceeded the configured limit
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var tooLarge *ErrTooLarge

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text shown to end users for err.
func publicMessage(err error) string {
	var validation *ErrValidation
	var tooLarge *ErrTooLarge

	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("The uploaded files are too large (limit %d MB).", tooLarge.Limit>>20)
	default:
		return genericErrorMessage
	}
}
