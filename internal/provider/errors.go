package provider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidURL is returned when a profile's base URL cannot be used
	ErrInvalidURL = errors.New("invalid url")

	// ErrAuthenticationFailed is reserved; authentication problems currently
	// surface as APIError with status 401 or 403
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnsupportedProvider is returned for an unknown profile kind
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// URLError reports an unusable base URL
type URLError struct {
	URL string
	Err error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

// Is makes errors.Is(err, ErrInvalidURL) hold for every URLError.
func (e *URLError) Is(target error) bool {
	return target == ErrInvalidURL
}

func (e *URLError) Unwrap() error {
	return e.Err
}

// APIError is a non-200 response from a listing endpoint. Body is the raw
// provider response.
type APIError struct {
	Context string
	Status  int
	Body    string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Context, e.Status)
	}

	return fmt.Sprintf("%s: HTTP %d: %s", e.Context, e.Status, body)
}

// IsAuthError reports whether err is an APIError with status 401 or 403.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Status == 401 || apiErr.Status == 403
}
