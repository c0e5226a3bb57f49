package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chen12345jin/planhub/internal/auth"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/middleware"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/utils"
)

// LoginRequest is the login endpoint's request body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles login, logout and token verification.
type AuthHandler struct {
	records     *repository.RecordRepository
	auditRepo   *repository.AuditRepository
	settings    *repository.SettingsRepository
	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	records *repository.RecordRepository,
	auditRepo *repository.AuditRepository,
	settings *repository.SettingsRepository,
	jwtService *auth.JWTService,
	passwordCfg *auth.PasswordConfig,
) *AuthHandler {
	return &AuthHandler{
		records:     records,
		auditRepo:   auditRepo,
		settings:    settings,
		jwtService:  jwtService,
		passwordCfg: passwordCfg,
	}
}

// Login authenticates a username/password pair and issues a token pair.
// Both outcomes write their own audit entry with custom details, so the
// capture middleware is told to stand down for this request.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if validationErrors := utils.ValidateStruct(&req); validationErrors != nil {
		utils.ValidationError(w, validationErrors)
		return
	}

	user, err := h.records.FindBy(r.Context(), constants.CollectionUsers, "username", req.Username)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if user == nil || !h.passwordMatches(user, req.Password) {
		utils.LogAuth("login", req.Username, false, "invalid credentials")
		h.appendAuthAudit(r, req.Username, "", http.StatusUnauthorized,
			fmt.Sprintf("login failed (username: %s)", req.Username), "LOGIN")
		middleware.MarkAudited(r)
		utils.ErrorFromAppError(w, utils.NewInvalidCredentialsError())
		return
	}

	role := user.StringField("role")
	if role == "" {
		role = constants.RoleUser
	}

	accessToken, _, err := h.jwtService.GenerateAccessToken(user.ID(), req.Username, role)
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewInternalServerError(err))
		return
	}
	refreshToken, _, err := h.jwtService.GenerateRefreshToken(user.ID(), req.Username, role)
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewInternalServerError(err))
		return
	}

	utils.LogAuth("login", req.Username, true, "")
	h.appendAuthAudit(r, req.Username, role, http.StatusOK,
		fmt.Sprintf("logged in (username: %s)", req.Username), "LOGIN")
	middleware.MarkAudited(r)

	utils.JSON(w, http.StatusOK, map[string]any{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"user": map[string]any{
			"id":       user.ID(),
			"username": req.Username,
			"role":     role,
			"name":     user.StringField("name"),
		},
	})
}

// Logout records the logout in the audit log. Tokens are stateless, so
// there is nothing to revoke server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.GetUsername(r)
	role, _ := auth.GetRole(r)

	h.appendAuthAudit(r, username, role, http.StatusOK,
		fmt.Sprintf("logged out (username: %s)", username), "LOGOUT")
	middleware.MarkAudited(r)

	utils.JSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

// Verify reports the identity carried by the presented access token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r)
	username, _ := auth.GetUsername(r)
	role, _ := auth.GetRole(r)

	utils.JSON(w, http.StatusOK, map[string]any{
		"id":       userID,
		"username": username,
		"role":     role,
	})
}

// passwordMatches verifies the password against the stored hash and salt.
func (h *AuthHandler) passwordMatches(user models.Record, password string) bool {
	hash := user.StringField("password_hash")
	salt := user.StringField("password_salt")
	if hash == "" || salt == "" {
		return false
	}
	match, err := auth.VerifyPassword(password, hash, salt, h.passwordCfg)
	return err == nil && match
}

// appendAuthAudit writes a custom audit entry for an auth event. It honors
// the same security.auditLog toggle as the capture middleware, so disabling
// auditing silences login and logout entries too. Failures are swallowed
// like every other audit append.
func (h *AuthHandler) appendAuthAudit(r *http.Request, username, role string, status int, details, actionType string) {
	if !h.settings.BoolValue(r.Context(), constants.SettingKeyAuditLog, true) {
		return
	}
	if username == "" {
		username = "anonymous"
	}
	entry := models.AuditEntry{
		CreatedAt:  time.Now(),
		Username:   username,
		Role:       role,
		Method:     r.Method,
		Path:       r.URL.Path,
		Status:     status,
		IP:         middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
		Details:    details,
		ActionType: actionType,
	}
	if err := h.auditRepo.Append(r.Context(), entry); err != nil {
		utils.LogAuth("audit", username, false, err.Error())
	}
}
