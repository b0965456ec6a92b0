package httpUtils

import (
	"fmt"
	"net/http"
)

type HttpError struct {
	StatusCode int
	Status     string
	// Body holds the start of the response body for error decoding
	Body []byte
}

func (e *HttpError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected HTTP status: %s", e.Status)
	}
	return fmt.Sprintf("unexpected HTTP status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HttpError) StatusText() string {
	return http.StatusText(e.StatusCode)
}
