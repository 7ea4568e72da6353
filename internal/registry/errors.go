package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// MaxDetailRunes bounds the detail kept from a non-JSON error body
const MaxDetailRunes = 200

// Error is returned when the registry answers with a non-2xx status
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("registry returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("registry returned %d: %s", e.StatusCode, e.Detail)
}

// Temporary reports whether retrying later may succeed
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type errorResponse struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		details := make([]string, 0, len(payload.Errors))
		for _, d := range payload.Errors {
			if d.Detail != "" {
				details = append(details, d.Detail)
			}
		}
		e.Detail = strings.Join(details, "; ")
		return e
	}

	text := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(text) > MaxDetailRunes {
		text = string([]rune(text)[:MaxDetailRunes]) + "..."
	}
	e.Detail = text
	return e
}
