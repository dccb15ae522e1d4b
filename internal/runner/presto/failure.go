package presto

import (
	"encoding/json"
	"strings"
)

// The engine reports query failures in one of two shapes: a structured JSON
// payload carrying a nested failureInfo message, or plain text. The boundary
// below parses the raw payload once so classification works on a typed value
// instead of inspecting shapes ad hoc.

type failureInfo struct {
	Message string `json:"message"`
}

type enginePayload struct {
	Message     string         `json:"message"`
	FailureInfo failureInfo    `json:"failureInfo"`
	Error       *nestedFailure `json:"error"`
}

type nestedFailure struct {
	Message     string      `json:"message"`
	FailureInfo failureInfo `json:"failureInfo"`
}

// extractFailureMessage pulls the nested failure-info message out of a raw
// engine error payload. The second return is false when the payload is not
// structured or carries no such message, in which case the caller falls back
// to a generic message built from the raw error.
func extractFailureMessage(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return "", false
	}

	var payload enginePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", false
	}

	if payload.Error != nil && payload.Error.FailureInfo.Message != "" {
		return payload.Error.FailureInfo.Message, true
	}
	if payload.FailureInfo.Message != "" {
		return payload.FailureInfo.Message, true
	}
	return "", false
}
