package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// StatusCode maps err onto the HTTP status the API answers with.
func StatusCode(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	var loadErr *LoadError
	var mutationErr *MutationError
	if errors.As(err, &loadErr) || errors.As(err, &mutationErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
