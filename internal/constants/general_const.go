// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing
// and request parameters. These constants ensure consistent API patterns and URL
// structure throughout the application, making the API more predictable and easier
// to maintain.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"

	// VersionPath is the endpoint for build and version information.
	VersionPath = "/version"

	// LogoutPath is the full path of the logout endpoint.
	LogoutPath = "/api/auth/logout"

	// LoginPath is the full path of the login endpoint, used by the audit
	// pipeline to classify authentication attempts.
	LoginPath = "/api/auth/login"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamResource is the URL parameter for collection resource names.
	ParamResource = "resource"

	// ParamID is the URL parameter for generic record identifiers.
	ParamID = "id"

	// ParamName is the URL parameter for backup snapshot filenames.
	ParamName = "name"
)

// Query Parameters define common query string parameter names.
const (
	// QueryParamPage is the query parameter for pagination page number.
	QueryParamPage = "page"

	// QueryParamPageSize is the query parameter for pagination page size.
	QueryParamPageSize = "pageSize"

	// QueryParamUsername is the query parameter for filtering audit entries by username.
	QueryParamUsername = "username"

	// QueryParamType is the query parameter for filtering audit entries by action type.
	QueryParamType = "type"

	// QueryParamStartDate is the query parameter for the inclusive start of a date range.
	QueryParamStartDate = "startDate"

	// QueryParamEndDate is the query parameter for the inclusive end of a date range.
	QueryParamEndDate = "endDate"

	// QueryParamLimit is the query parameter for limiting backup listings.
	QueryParamLimit = "limit"

	// QueryParamOffset is the query parameter for offsetting backup listings.
	QueryParamOffset = "offset"
)

// Collection Names identify the file-backed stores managed by the application.
// Each name maps to one JSON file under the configured data directory.
const (
	// CollectionDepartments holds organisational department records.
	CollectionDepartments = "departments"

	// CollectionEmployees holds employee records.
	CollectionEmployees = "employees"

	// CollectionPlans holds annual plan records.
	CollectionPlans = "plans"

	// CollectionEvents holds calendar event records.
	CollectionEvents = "events"

	// CollectionUsers holds login account records.
	CollectionUsers = "users"

	// CollectionSettings holds system settings records.
	CollectionSettings = "system-settings"

	// CollectionAuditLog holds audit trail entries.
	CollectionAuditLog = "logs"

	// CollectionCompanyInfo holds the company info singleton object.
	CollectionCompanyInfo = "company-info"
)

// Resources lists the collections exposed through the generic CRUD handlers.
// Settings, audit log and company info have dedicated handlers and are
// deliberately excluded.
var Resources = []string{
	CollectionDepartments,
	CollectionEmployees,
	CollectionPlans,
	CollectionEvents,
	CollectionUsers,
}

// Setting Keys define well-known logical keys in the settings store.
const (
	// SettingKeyAuditLog toggles audit capture. Absent means enabled.
	SettingKeyAuditLog = "security.auditLog"

	// SettingKeyAutoBackup configures the auto-backup interval in minutes.
	// Zero or absent disables the timer.
	SettingKeyAutoBackup = "backup.autoIntervalMinutes"

	// SettingKeyIntegration holds third-party integration credentials.
	SettingKeyIntegration = "integration"

	// SettingKeyDingtalkWebhook holds the DingTalk notification webhook.
	SettingKeyDingtalkWebhook = "dingtalk_webhook"
)

// Context keys for storing authenticated user information and request metadata.
const (
	// UserIDContextKey is the context key for the authenticated user ID.
	UserIDContextKey = "user_id"

	// UsernameContextKey is the context key for the authenticated username.
	UsernameContextKey = "username"

	// RoleContextKey is the context key for the authenticated user's role.
	RoleContextKey = "role"

	// RequestIDContextKey is the context key for the unique request ID.
	RequestIDContextKey = "request_id"
)

// Token Types identify the purpose of issued JWT tokens.
const (
	// TokenTypeAccess identifies short-lived access tokens.
	TokenTypeAccess = "access"

	// TokenTypeRefresh identifies long-lived refresh tokens.
	TokenTypeRefresh = "refresh"
)

// Roles define the access levels recognised by the application.
const (
	// RoleAdmin grants access to administrative endpoints.
	RoleAdmin = "admin"

	// RoleUser is the default role for regular accounts.
	RoleUser = "user"
)

// Seed values for a freshly initialised data directory.
const (
	// DefaultAdminUsername is the login name of the seeded administrator.
	DefaultAdminUsername = "admin"

	// DefaultAdminPassword is the initial password of the seeded
	// administrator. Deployments are expected to change it after first
	// login.
	DefaultAdminPassword = "admin123"
)
