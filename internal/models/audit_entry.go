package models

import "time"

// AuditEntry is an immutable record of one API invocation. Entries are
// write-once: they are appended by the audit middleware (or explicitly by
// handlers that need custom details) and never edited afterwards, only
// deleted individually or in bulk.
type AuditEntry struct {
	// ID is allocated per the same rule as collection records.
	ID int64 `json:"id"`

	// CreatedAt is the completion time of the audited request. Consumers
	// must sort by this field rather than rely on insertion order.
	CreatedAt time.Time `json:"created_at"`

	// Username and Role identify the caller, or "anonymous" when the
	// request carried no valid credentials.
	Username string `json:"username"`
	Role     string `json:"role"`

	// Method and Path identify the invoked operation.
	Method string `json:"method"`
	Path   string `json:"path"`

	// Status is the HTTP status code written by the handler.
	Status int `json:"status"`

	// DurationMS is the wall-clock handling time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// IP and UserAgent describe the client.
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`

	// Query is the raw query string of the request.
	Query string `json:"query"`

	// Body is the serialized request body with sensitive fields masked.
	Body string `json:"body"`

	// Details is the synthesized human-readable description of the action.
	Details string `json:"details"`

	// ActionType classifies the entry (LOGIN, CREATE, UPDATE, ...).
	ActionType string `json:"action_type,omitempty"`
}

// NextAuditID derives the next audit entry identifier: 1 for an empty log,
// max(existing ids)+1 otherwise.
func NextAuditID(entries []AuditEntry) int64 {
	var max int64
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}
