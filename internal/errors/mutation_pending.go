package errors

import "net/http"

var ErrMutationPending = &Exception{
	Message:    "a change to this task is still pending",
	StatusCode: http.StatusConflict,
}
