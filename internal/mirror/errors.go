package mirror

import (
	"fmt"
	"strings"
)

// CloningFailedError is returned by the single-profile clone when git fails.
// URL never carries credentials.
type CloningFailedError struct {
	URL    string
	Output string
	Err    error
}

func (e *CloningFailedError) Error() string {
	msg := "cloning " + e.URL + " failed"

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}

	return msg
}

func (e *CloningFailedError) Unwrap() error {
	return e.Err
}
