package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AuthError reports a rejected access key (HTTP 401/403). Never retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// ServerError is a non-2xx response from the BRAIN API.
type ServerError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *ServerError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("server error (status %d, request %s): %s", e.Status, e.RequestID, e.Message)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

// serverMessage pulls the human-readable message out of an error body.
// The API wraps errors as {"error": "..."}; anything else is passed
// through truncated.
func serverMessage(body []byte) string {
	var wrapped struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != "" {
		return wrapped.Error
	}
	const max = 512
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
