package errors

import "net/http"

var ErrAuthRequired = &Exception{
	Message:    "authentication required",
	StatusCode: http.StatusUnauthorized,
}
