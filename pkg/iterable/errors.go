package iterable

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrResponseTooLarge is returned when a response body exceeds Config.MaxResponseSize.
var ErrResponseTooLarge = errors.New("iterable response too large")

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *HTTPError) StatusCode() int {
	return e.Status
}
