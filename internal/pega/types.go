package pega

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation names an API operation in logs and metrics.
type Operation string

const (
	OpVerifyConnectivity Operation = "verify_connectivity"
	OpListCaseTypes      Operation = "list_case_types"
	OpCreateCase         Operation = "create_case"
)

// Accepted field names, in order of preference, for identifiers in upstream
// payloads. The DX API uses "ID"; some versions and proxies lower-case it.
var (
	caseTypeIDFields = []string{"ID", "id"}
	caseIDFields     = []string{"ID", "id"}
)

const (
	unknownName    = "Unknown"
	noCaseTypeID   = "No ID"
	unknownCaseID  = "Unknown"
	caseTypesField = "caseTypes"
)

// CaseType is one entry of the /casetypes listing.
type CaseType struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
}

// caseTypeFromMap builds a CaseType, applying the name and ID fallbacks.
func caseTypeFromMap(m map[string]any) CaseType {
	name := firstField(m, []string{"name"})
	if name == "" {
		name = unknownName
	}
	id := firstField(m, caseTypeIDFields)
	if id == "" {
		id = noCaseTypeID
	}
	return CaseType{Name: name, ID: id}
}

// firstField returns the first non-empty value among fields, formatted as a string.
func firstField(m map[string]any, fields []string) string {
	for _, f := range fields {
		v, ok := m[f]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			s = fmt.Sprint(val)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// extractCaseID finds the created case ID at the top level of the response
// or under data.caseInfo, as returned by DX API v2.
func extractCaseID(m map[string]any) string {
	if id := firstField(m, caseIDFields); id != "" {
		return id
	}
	if data, ok := m["data"].(map[string]any); ok {
		if info, ok := data["caseInfo"].(map[string]any); ok {
			if id := firstField(info, caseIDFields); id != "" {
				return id
			}
		}
	}
	return unknownCaseID
}
