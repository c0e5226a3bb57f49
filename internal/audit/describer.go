package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chen12345jin/planhub/internal/constants"
)

// pathLabels maps API path prefixes to human-readable resource labels. The
// longest matching prefix wins so /api/admin/backups is labelled "backup"
// rather than "admin area".
var pathLabels = map[string]string{
	"/api/departments":           "department",
	"/api/employees":             "employee",
	"/api/plans":                 "annual plan",
	"/api/events":                "event",
	"/api/users":                 "account",
	"/api/system-settings":       "system settings",
	"/api/logs":                  "audit log",
	"/api/company-info":          "company info",
	"/api/admin/backup":          "backup",
	"/api/admin/backups":         "backup",
	"/api/admin/backups/restore": "restore",
	"/api/admin/cleanup-data":    "data cleanup",
	"/api/admin":                 "admin area",
}

// interestingFields are record fields worth surfacing in a description, in
// display order.
var interestingFields = []string{"name", "title", "username", "department", "role", "year", "status"}

// ActionTypeFor classifies a request for audit filtering. Login gets its own
// type; everything else is derived from the HTTP method.
func ActionTypeFor(method, path string) string {
	if path == constants.LoginPath {
		return "LOGIN"
	}
	switch method {
	case http.MethodGet:
		return "VIEW"
	case http.MethodPost:
		return "CREATE"
	case http.MethodPut, http.MethodPatch:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	default:
		return "OPERATE"
	}
}

// verbFor returns the verb for the description text.
func verbFor(method string) string {
	switch method {
	case http.MethodGet:
		return "viewed"
	case http.MethodPost:
		return "created"
	case http.MethodPut, http.MethodPatch:
		return "updated"
	case http.MethodDelete:
		return "deleted"
	default:
		return "operated on"
	}
}

// unknownOperationLabel describes paths outside the registered prefix table.
const unknownOperationLabel = "unknown operation"

// labelFor resolves a path to its resource label via longest-prefix match,
// falling back to a fixed label for unknown routes.
func labelFor(path string) string {
	best := ""
	label := unknownOperationLabel
	for prefix, l := range pathLabels {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
			label = l
		}
	}
	return label
}

// Describe produces the human-readable details line for an audit entry,
// e.g. `created department (name: Engineering)`. The masked body, when it
// parses as an object, contributes a parenthetical of interesting fields.
func Describe(method, path string, maskedBody []byte) string {
	var desc string
	switch path {
	case constants.LoginPath:
		desc = "logged in"
	case constants.LogoutPath:
		desc = "logged out"
	default:
		desc = fmt.Sprintf("%s %s", verbFor(method), labelFor(path))
	}

	if suffix := fieldSuffix(maskedBody); suffix != "" {
		desc += " (" + suffix + ")"
	}
	return desc
}

// fieldSuffix extracts interesting fields from a masked JSON object body.
func fieldSuffix(maskedBody []byte) string {
	if len(maskedBody) == 0 {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal(maskedBody, &obj); err != nil {
		return ""
	}

	var parts []string
	for _, field := range interestingFields {
		v, ok := obj[field]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", field, val))
			}
		case float64:
			parts = append(parts, fmt.Sprintf("%s: %v", field, val))
		}
	}
	return strings.Join(parts, ", ")
}
