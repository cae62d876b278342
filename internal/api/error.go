// ABOUTME: Typed errors for backend responses
// ABOUTME: Decodes the {"error": ...} / {"errors": [...]} envelopes both services use

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a failed backend response. Login/register validation failures
// carry the per-field messages in Fields; everything else carries a single
// Message.
type Error struct {
	// Status is the HTTP status code of the response.
	Status int

	// Message is the backend-provided error message, or a generic
	// fallback when the body had no decodable envelope.
	Message string

	// Fields holds field-level validation messages when the backend
	// returned an error list.
	Fields []string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s (status %d)", strings.Join(e.Fields, "; "), e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether the error is the 401 that forced logout.
func (e *Error) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// errorEnvelope matches the two error body shapes the backends produce.
type errorEnvelope struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// decodeError builds an *Error from a non-2xx response body.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("server returned status %d", resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if envelope.Error != "" {
		apiErr.Message = envelope.Error
	}
	if len(envelope.Errors) > 0 {
		apiErr.Fields = envelope.Errors
		apiErr.Message = envelope.Errors[0]
	}
	return apiErr
}
