package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/config"
	"github.com/chen12345jin/planhub/internal/constants"
)

func issueToken(t *testing.T, svc *JWTService, role string) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(1, "tester", role)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareAcceptsValidBearerToken(t *testing.T) {
	svc := newTestJWTService()
	provider := NewJWTAuthProvider(svc)

	var gotUserID int64
	var gotRole string
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r)
		gotRole, _ = GetRole(r)
		w.WriteHeader(http.StatusOK)
	}), provider)

	req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
	req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+issueToken(t, svc, constants.RoleUser))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gotUserID)
	assert.Equal(t, constants.RoleUser, gotRole)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	provider := NewJWTAuthProvider(newTestJWTService())

	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}), provider)

	req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	expiredSvc := NewJWTService(&config.JWTSettings{
		Secret: "test-secret-key",
		Expiry: -time.Minute,
		Issuer: "planhub-test",
	})
	provider := NewJWTAuthProvider(newTestJWTService())

	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}), provider)

	req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
	req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+issueToken(t, expiredSvc, constants.RoleUser))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestJWTService()
	provider := NewJWTAuthProvider(svc)

	handler := RequireAuth(provider)(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("Admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/backup", nil)
		req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+issueToken(t, svc, constants.RoleAdmin))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Regular user is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/backup", nil)
		req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+issueToken(t, svc, constants.RoleUser))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestOptionalAuthContinuesWithoutCredentials(t *testing.T) {
	provider := NewJWTAuthProvider(newTestJWTService())

	var authenticated bool
	handler := OptionalAuth(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated = IsAuthenticated(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestEnsureRequestIDGeneratesWhenAbsent(t *testing.T) {
	provider := NewJWTAuthProvider(newTestJWTService())

	var requestID string
	handler := OptionalAuth(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ = GetRequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, requestID)
}

func TestRequestIDVisibleToDownstreamMiddleware(t *testing.T) {
	// Mimics the request-logging middleware: it reads the ID off its own
	// request, so the assignment must happen upstream of it.
	var loggedID string
	logging := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			loggedID, _ = GetRequestID(r)
		})
	}

	handler := RequestID()(logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEmpty(t, loggedID)

	// A client-provided ID is preserved end to end.
	req = httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	req.Header.Set(constants.HeaderXRequestID, "client-supplied-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "client-supplied-id", loggedID)
}
