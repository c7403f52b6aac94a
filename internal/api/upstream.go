package api

import (
	"encoding/json"
	"fmt"
	"strings"

	pegastrings "github.com/amribhatt/pega/pkg/strings"
)

// UpstreamError is the structured error body returned by the token endpoint
// (RFC 6749 error/error_description) or the DX API (errorDetails).
type UpstreamError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`

	// DX API error fields.
	ErrorClassification string `json:"errorClassification"`
	LocalizedValue      string `json:"localizedValue"`
	ErrorDetails        []struct {
		Message        string `json:"message"`
		LocalizedValue string `json:"localizedValue"`
	} `json:"errorDetails"`
}

// Message returns the most specific description available.
func (e *UpstreamError) Message() string {
	switch {
	case e.Description != "" && e.Code != "":
		return fmt.Sprintf("%s (%s)", e.Description, e.Code)
	case e.Description != "":
		return e.Description
	case e.Code != "":
		return e.Code
	}

	for _, d := range e.ErrorDetails {
		if d.LocalizedValue != "" {
			return d.LocalizedValue
		}
		if d.Message != "" {
			return d.Message
		}
	}
	if e.LocalizedValue != "" {
		return e.LocalizedValue
	}
	return e.ErrorClassification
}

// ParseUpstreamError decodes body as an UpstreamError. It returns nil when the
// body is not JSON or carries no recognised error field.
func ParseUpstreamError(body []byte) *UpstreamError {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var e UpstreamError
	if err := json.Unmarshal([]byte(trimmed), &e); err != nil {
		return nil
	}
	if e.Message() == "" {
		return nil
	}
	return &e
}

// DescribeResponse summarises an unexpected response as "HTTP <status>: <detail>",
// using the structured error when present and a bounded body snippet otherwise.
func DescribeResponse(status int, body []byte) string {
	if e := ParseUpstreamError(body); e != nil {
		return fmt.Sprintf("HTTP %d: %s", status, e.Message())
	}
	return fmt.Sprintf("HTTP %d: %s", status, pegastrings.BodySnippet(body))
}
