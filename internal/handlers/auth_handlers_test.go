package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/auth"
	"github.com/chen12345jin/planhub/internal/config"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/storage"
)

type authFixture struct {
	handler   *AuthHandler
	auditRepo *repository.AuditRepository
	settings  *repository.SettingsRepository
	jwt       *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	records := repository.NewRecordRepository(store)
	auditRepo := repository.NewAuditRepository(store)
	settings := repository.NewSettingsRepository(store)
	jwtService := auth.NewJWTService(&config.JWTSettings{
		Secret:        "test-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "planhub-test",
	})
	passwordCfg := auth.DefaultPasswordConfig()

	hash, salt, err := auth.HashPassword("admin123", passwordCfg)
	require.NoError(t, err)
	_, err = records.Create(context.Background(), constants.CollectionUsers, models.Record{
		"username":      "admin",
		"role":          constants.RoleAdmin,
		"name":          "Administrator",
		"password_hash": hash,
		"password_salt": salt,
	})
	require.NoError(t, err)

	return &authFixture{
		handler:   NewAuthHandler(records, auditRepo, settings, jwtService, passwordCfg),
		auditRepo: auditRepo,
		settings:  settings,
		jwt:       jwtService,
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)

	rec := doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "admin", "password": "admin123"})

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, rec, &payload)

	assert.NotEmpty(t, payload.Token)
	assert.NotEmpty(t, payload.RefreshToken)
	assert.Equal(t, "admin", payload.User.Username)
	assert.Equal(t, constants.RoleAdmin, payload.User.Role)

	// The issued token must validate as an access token.
	claims, err := f.jwt.ValidateToken(payload.Token, constants.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	// Login writes its own audit entry with custom details.
	entries, err := f.auditRepo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "LOGIN", entries[0].ActionType)
	assert.Contains(t, entries[0].Details, "logged in (username: admin)")
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	rec := doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "admin", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	entries, err := f.auditRepo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Details, "login failed (username: admin)")
	assert.Equal(t, http.StatusUnauthorized, entries[0].Status)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	rec := doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "ghost", "password": "whatever"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidatesRequiredFields(t *testing.T) {
	f := newAuthFixture(t)

	rec := doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "admin"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHonorsAuditDisableToggle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.settings.Upsert(ctx, constants.SettingKeyAuditLog, false)
	require.NoError(t, err)

	rec := doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "nobody", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "admin", "password": "admin123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	entries, err := f.auditRepo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Re-enabling resumes capture for subsequent logins only.
	_, err = f.settings.Upsert(ctx, constants.SettingKeyAuditLog, true)
	require.NoError(t, err)

	rec = doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err = f.auditRepo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Details, "logged in (username: admin)")
}

func TestLoginResponseNeverContainsPasswordHash(t *testing.T) {
	f := newAuthFixture(t)

	rec := doJSON(t, http.HandlerFunc(f.handler.Login), http.MethodPost, "/api/auth/login",
		map[string]any{"username": "admin", "password": "admin123"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "password_salt")
}
