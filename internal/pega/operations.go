package pega

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amribhatt/pega/internal/api"
)

const (
	casesPath     = "/cases"
	caseTypesPath = "/casetypes"
)

// VerifyConnectivity authenticates and issues a lightweight API call,
// reporting the round-trip time on success.
func (c *Client) VerifyConnectivity(ctx context.Context) api.Outcome {
	start := time.Now()
	elapsed, failure := c.ping(ctx, "Connection failed", "Connection error")
	c.observe(OpVerifyConnectivity, start, failure)
	if failure != nil {
		return api.Fail(failure)
	}
	return api.Success(fmt.Sprintf("Connected to Pega successfully in %.1fms", milliseconds(elapsed)))
}

// ListCaseTypes returns a numbered listing of the application's case types.
func (c *Client) ListCaseTypes(ctx context.Context) api.Outcome {
	caseTypes, failure := c.CaseTypes(ctx)
	if failure != nil {
		return api.Fail(failure)
	}
	if len(caseTypes) == 0 {
		return api.Success("No case types found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d case types:\n", len(caseTypes))
	for i, ct := range caseTypes {
		fmt.Fprintf(&b, "  %d. %s (ID: %s)\n", i+1, ct.Name, ct.ID)
	}
	return api.Success(strings.TrimRight(b.String(), "\n"))
}

// CaseTypes fetches and decodes the case types in upstream order.
func (c *Client) CaseTypes(ctx context.Context) ([]CaseType, *api.Failure) {
	start := time.Now()
	caseTypes, failure := c.fetchCaseTypes(ctx)
	c.observe(OpListCaseTypes, start, failure)
	return caseTypes, failure
}

// CreateCase creates a case of the given type. The ID is passed through
// without checking it against the known case types.
func (c *Client) CreateCase(ctx context.Context, caseTypeID string) api.Outcome {
	start := time.Now()
	caseID, failure := c.createCase(ctx, caseTypeID)
	c.observe(OpCreateCase, start, failure)
	if failure != nil {
		return api.Fail(failure)
	}
	return api.Success("Case created successfully with ID: " + caseID)
}

// CaseTypesSnapshot renders the case types as a plain-text document.
// Failures are rendered inline.
func (c *Client) CaseTypesSnapshot(ctx context.Context) string {
	caseTypes, failure := c.CaseTypes(ctx)
	if failure != nil {
		return failure.Detail
	}
	if len(caseTypes) == 0 {
		return "No case types available"
	}

	var b strings.Builder
	b.WriteString("Available Case Types:\n")
	for _, ct := range caseTypes {
		fmt.Fprintf(&b, "- %s (%s)\n", ct.Name, ct.ID)
	}
	return b.String()
}

// ConnectionStatusSnapshot renders the connectivity check as a status block.
func (c *Client) ConnectionStatusSnapshot(ctx context.Context) string {
	start := time.Now()
	elapsed, failure := c.ping(ctx, "", "")
	c.observe(OpVerifyConnectivity, start, failure)
	if failure != nil {
		return fmt.Sprintf("Connection Error\nError: %s\nStatus: Check configuration", failure.Detail)
	}
	return fmt.Sprintf("Connected to Pega\nResponse Time: %.1fms\nStatus: Ready for requests", milliseconds(elapsed))
}

func (c *Client) ping(ctx context.Context, statusPrefix, errPrefix string) (time.Duration, *api.Failure) {
	resp, failure := c.call(ctx, http.MethodGet, caseTypesPath, nil, errPrefix)
	if failure != nil {
		return 0, failure
	}
	if resp.status != http.StatusOK {
		return 0, requestFailed(statusPrefix, resp)
	}
	return resp.elapsed, nil
}

func (c *Client) fetchCaseTypes(ctx context.Context) ([]CaseType, *api.Failure) {
	resp, failure := c.call(ctx, http.MethodGet, caseTypesPath, nil, "Error getting case types")
	if failure != nil {
		return nil, failure
	}
	if resp.status != http.StatusOK {
		return nil, requestFailed("Failed to get case types", resp)
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, api.WrapFailure(api.KindUnknownAuthError, err,
			"Error getting case types: response is not valid JSON")
	}

	entries, _ := payload[caseTypesField].([]any)
	caseTypes := make([]CaseType, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		caseTypes = append(caseTypes, caseTypeFromMap(m))
	}
	return caseTypes, nil
}

func (c *Client) createCase(ctx context.Context, caseTypeID string) (string, *api.Failure) {
	payload := map[string]string{"caseTypeID": caseTypeID}
	resp, failure := c.call(ctx, http.MethodPost, casesPath, payload, "Error creating case")
	if failure != nil {
		return "", failure
	}
	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		return "", requestFailed("Failed to create case", resp)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return "", api.WrapFailure(api.KindUnknownAuthError, err,
			"Error creating case: response is not valid JSON")
	}
	return extractCaseID(body), nil
}
