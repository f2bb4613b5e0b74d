package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable  = errors.New("error connecting to Graph API")
	ErrBuildRequest = errors.New("failed to create request")
	ErrEncodeBody   = errors.New("failed to encode request body")
)

// Error is a non-2xx response from the directory API. The message is
// extracted best-effort from the Graph error envelope.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Graph API error: %s", e.Message)
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// extractMessage pulls the message out of a Graph error body. Falls back to
// the raw body, then to a generic placeholder.
func extractMessage(body []byte) string {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	raw := strings.TrimSpace(string(body))
	if raw != "" {
		return raw
	}

	return "Unknown error"
}
