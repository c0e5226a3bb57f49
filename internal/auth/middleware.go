// Package auth provides authentication and authorization for the API.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing authenticated user information and request metadata.
const (
	// UserIDContextKey is the context key for storing the authenticated user ID.
	UserIDContextKey ContextKey = constants.UserIDContextKey

	// UsernameContextKey is the context key for storing the authenticated username.
	UsernameContextKey ContextKey = constants.UsernameContextKey

	// RoleContextKey is the context key for storing the authenticated user's role.
	RoleContextKey ContextKey = constants.RoleContextKey

	// RequestIDContextKey is the context key for storing the unique request ID.
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// AuthProvider defines methods for different authentication mechanisms.
// This interface allows for pluggable authentication strategies.
type AuthProvider interface {
	// Authenticate checks the request and returns the authenticated user's
	// id, username and role, or an error when the credentials are invalid.
	Authenticate(r *http.Request) (int64, string, string, error)
}

// TokenValidator validates a token string of an expected type.
type TokenValidator interface {
	ValidateToken(tokenString string, expectedType string) (*CustomClaims, error)
}

// JWTAuthProvider implements JWT-based authentication. It extracts and
// validates bearer tokens from the Authorization header.
type JWTAuthProvider struct {
	jwtService TokenValidator
}

// NewJWTAuthProvider creates a new JWTAuthProvider with the specified validator.
func NewJWTAuthProvider(jwtService TokenValidator) *JWTAuthProvider {
	return &JWTAuthProvider{
		jwtService: jwtService,
	}
}

// Authenticate implements the AuthProvider interface for JWT authentication.
func (p *JWTAuthProvider) Authenticate(r *http.Request) (int64, string, string, error) {
	authHeader := r.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return 0, "", "", utils.ErrUnauthorized
	}

	if !strings.HasPrefix(authHeader, constants.BearerTokenPrefix) {
		return 0, "", "", utils.ErrUnauthorized
	}
	token := strings.TrimPrefix(authHeader, constants.BearerTokenPrefix)

	claims, err := p.jwtService.ValidateToken(token, constants.TokenTypeAccess)
	if err != nil {
		return 0, "", "", err
	}

	return claims.UserID, claims.Username, claims.Role, nil
}

// AuthMiddleware wraps an HTTP handler with authentication. The request only
// proceeds when at least one provider accepts it.
func AuthMiddleware(next http.Handler, providers ...AuthProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, requestID := ensureRequestID(r)

		var lastErr error
		for _, provider := range providers {
			userID, username, role, err := provider.Authenticate(r)
			if err == nil {
				ctx = context.WithValue(ctx, UserIDContextKey, userID)
				ctx = context.WithValue(ctx, UsernameContextKey, username)
				ctx = context.WithValue(ctx, RoleContextKey, role)

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			lastErr = err
		}

		log.Info().
			Err(lastErr).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Authentication failed")

		var appErr *utils.AppError
		if errors.As(lastErr, &appErr) {
			utils.ErrorFromAppError(w, appErr)
		} else if errors.Is(lastErr, utils.ErrExpiredToken) {
			utils.Error(w, http.StatusUnauthorized, constants.CodeTokenExpired, "Your session has expired", nil)
		} else {
			utils.Unauthorized(w, constants.MsgAuthRequired)
		}
	})
}

// RequireAuth returns a router middleware that requires authentication.
func RequireAuth(providers ...AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return AuthMiddleware(next, providers...)
	}
}

// RequireAdmin returns a router middleware that requires the authenticated
// user to carry the admin role. It must run after RequireAuth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r)
			if !ok || role != constants.RoleAdmin {
				username, _ := GetUsername(r)
				log.Warn().
					Str("username", username).
					Str("path", r.URL.Path).
					Msg("Admin access denied")
				utils.Forbidden(w, constants.MsgAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID attaches a request ID to the request context, generating one
// when the client did not send any. It must run at the head of the
// middleware chain so downstream logging sees the ID; the auth middlewares
// re-run ensureRequestID but find the header already set.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := ensureRequestID(r)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attempts authentication but continues even if it fails. The
// audit middleware uses it so entries carry the caller identity when one is
// available without locking anonymous requests out of public routes.
func OptionalAuth(providers ...AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := ensureRequestID(r)

			for _, provider := range providers {
				userID, username, role, err := provider.Authenticate(r)
				if err == nil {
					ctx = context.WithValue(ctx, UserIDContextKey, userID)
					ctx = context.WithValue(ctx, UsernameContextKey, username)
					ctx = context.WithValue(ctx, RoleContextKey, role)
					break
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ensureRequestID returns the request context with a request ID attached,
// generating one when the client did not send any.
func ensureRequestID(r *http.Request) (context.Context, string) {
	requestID := r.Header.Get(constants.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
		r.Header.Set(constants.HeaderXRequestID, requestID)
	}
	return context.WithValue(r.Context(), RequestIDContextKey, requestID), requestID
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(int64)
	return userID, ok
}

// GetUsername extracts the username from the request context.
func GetUsername(r *http.Request) (string, bool) {
	username, ok := r.Context().Value(UsernameContextKey).(string)
	return username, ok
}

// GetRole extracts the role from the request context.
func GetRole(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(RoleContextKey).(string)
	return role, ok
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDContextKey).(string)
	return requestID, ok
}

// IsAuthenticated checks if the request carries an authenticated user.
func IsAuthenticated(r *http.Request) bool {
	_, ok := GetUserID(r)
	return ok
}
