package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/audit"
	"github.com/chen12345jin/planhub/internal/auth"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
)

// auditState tracks whether the current request has already been written to
// the audit log. Handlers that append a custom entry, such as login, mark
// the request so the middleware does not capture it a second time.
type auditState struct {
	logged bool
}

type auditStateKey struct{}

// MarkAudited flags the request as already audited, suppressing the
// middleware's synthesized entry.
func MarkAudited(r *http.Request) {
	if state, ok := r.Context().Value(auditStateKey{}).(*auditState); ok {
		state.logged = true
	}
}

// AuditCapture records an audit entry for every API request. Capture is
// skipped when the security.auditLog setting is explicitly false; absent
// means enabled. Append failures are logged and swallowed, never surfaced
// to the client.
func AuditCapture(auditRepo *repository.AuditRepository, settings *repository.SettingsRepository, maxBodyBytes int) func(http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = constants.MaxAuditBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, constants.APIBasePath) {
				next.ServeHTTP(w, r)
				return
			}

			if !settings.BoolValue(r.Context(), constants.SettingKeyAuditLog, true) {
				next.ServeHTTP(w, r)
				return
			}

			body := captureBody(r, maxBodyBytes)
			state := &auditState{}
			ctx := context.WithValue(r.Context(), auditStateKey{}, state)
			recorder := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(recorder, r.WithContext(ctx))

			if state.logged {
				return
			}

			maskedBody := audit.MaskJSONBody(body)
			username, role := callerIdentity(r.WithContext(ctx))

			entry := models.AuditEntry{
				CreatedAt:  time.Now(),
				Username:   username,
				Role:       role,
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     recorder.status,
				DurationMS: time.Since(start).Milliseconds(),
				IP:         ClientIP(r),
				UserAgent:  r.UserAgent(),
				Query:      r.URL.RawQuery,
				Body:       string(maskedBody),
				Details:    audit.Describe(r.Method, r.URL.Path, maskedBody),
				ActionType: audit.ActionTypeFor(r.Method, r.URL.Path),
			}

			if err := auditRepo.Append(context.Background(), entry); err != nil {
				log.Warn().Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Failed to append audit entry")
			}
		})
	}
}

// captureBody reads the request body up to the audit size cap and restores
// it so the handler can read it again.
func captureBody(r *http.Request, maxBodyBytes int) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	limited := io.LimitReader(r.Body, int64(maxBodyBytes))
	captured, err := io.ReadAll(limited)
	if err != nil {
		r.Body = io.NopCloser(bytes.NewReader(captured))
		return nil
	}

	// Stitch the unread remainder back behind the captured prefix.
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(captured), r.Body))
	return captured
}

// callerIdentity resolves the audited username and role, falling back to
// anonymous for unauthenticated requests.
func callerIdentity(r *http.Request) (string, string) {
	username, ok := auth.GetUsername(r)
	if !ok || username == "" {
		return "anonymous", ""
	}
	role, _ := auth.GetRole(r)
	return username, role
}
