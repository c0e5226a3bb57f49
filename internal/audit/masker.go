// Package audit implements sensitive-field masking and human-readable
// action descriptions for the audit trail.
package audit

import (
	"encoding/json"
	"strings"

	"github.com/chen12345jin/planhub/internal/constants"
)

// sensitiveKeywords are matched as case-insensitive substrings of field
// names. Any field whose name contains one of them gets its value replaced.
var sensitiveKeywords = []string{
	"password",
	"secret",
	"token",
	"webhook",
	"appkey",
}

// IsSensitiveField reports whether a field name matches the denylist.
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MaskValue walks a decoded JSON value and replaces sensitive field values
// with the redaction marker. Objects and arrays are rebuilt so the input is
// never mutated; scalars pass through unchanged. Only truthy values are
// replaced, so empty strings, nil, false and zero stay as they are and
// still reveal that the field was unset.
func MaskValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, field := range val {
			if IsSensitiveField(k) && isTruthy(field) {
				out[k] = constants.LogRedactedValue
				continue
			}
			out[k] = MaskValue(field)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = MaskValue(item)
		}
		return out
	default:
		return v
	}
}

// MaskJSONBody masks a serialized JSON request body. Non-JSON input is
// returned unchanged; the capture layer stores whatever the client sent.
func MaskJSONBody(body []byte) []byte {
	if len(body) == 0 {
		return body
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return body
	}

	masked, err := json.Marshal(MaskValue(decoded))
	if err != nil {
		return body
	}
	return masked
}

// isTruthy mirrors JavaScript truthiness for decoded JSON values, which is
// the contract the redaction marker was specified against.
func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}
