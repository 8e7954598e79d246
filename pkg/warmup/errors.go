package warmup

import (
	"errors"
	"net/http"
	"strings"
)

// ErrInvalidToken indicates the API rejected the provided credentials or access token.
// It is always returned wrapped in an *Error.
var ErrInvalidToken = errors.New("invalid token")

// Error is returned when the Warmup API call failed, either because the server could not be reached,
// returned an unexpected HTTP status, or reported a failure in its response.
type Error struct {
	Method     string
	StatusCode int
	Result     string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("warmup: " + e.Method)
	switch {
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	case e.StatusCode != http.StatusOK && e.StatusCode != 0:
		b.WriteString(": " + http.StatusText(e.StatusCode))
	default:
		b.WriteString(": " + e.Result)
		if e.Message != "" {
			b.WriteString(" (" + e.Message + ")")
		}
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
