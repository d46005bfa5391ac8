package queryserver

import (
	"fmt"
	"net/http"
)

// handlerError is an error returned from a route handler, carrying the
// HTTP status code sent to the client.
type handlerError struct {
	Code    int
	Message string
}

func (hErr *handlerError) Error() string {
	return hErr.Message
}

func newHandlerError(code int, message string) *handlerError {
	return &handlerError{
		Code:    code,
		Message: message,
	}
}

func newHandlerErrorf(code int, format string, args ...interface{}) *handlerError {
	return newHandlerError(code, fmt.Sprintf(format, args...))
}

// newInternalServerHandlerError logs err and hides it from the client
func newInternalServerHandlerError(err error) *handlerError {
	log.Errorf("Internal error: %+v", err)
	return newHandlerError(http.StatusInternalServerError, "internal error")
}

// errorResponse is the body sent along with a failed request
type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}
