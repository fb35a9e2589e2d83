package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/offlinesync/internal/models"
)

var (
	// ErrNetwork wraps transport failures: the request never got a response.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is matched by 401/403 responses and by an expired access token.
	ErrUnauthorized = errors.New("unauthorized")
)

// HTTPError is a non-2xx response of the table service.
type HTTPError struct {
	Item       models.Item // тело ответа, если это JSON объект (например серверная версия при 409/412)
	Body       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrUnauthorized) true for authentication failures.
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
