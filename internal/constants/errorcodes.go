// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling,
// categorization, and messaging. These constants ensure consistent error
// reporting throughout the application. User-facing error messages are crafted
// to be informative without revealing implementation details.
package constants

// Error Codes define machine-readable codes included in error responses.
const (
	// CodeBadRequest indicates a malformed or invalid request.
	CodeBadRequest = "bad_request"

	// CodeUnauthorized indicates missing or invalid authentication.
	CodeUnauthorized = "unauthorized"

	// CodeForbidden indicates the user lacks permission for the requested action.
	CodeForbidden = "forbidden"

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound = "not_found"

	// CodeMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	CodeMethodNotAllowed = "method_not_allowed"

	// CodeConflict indicates a resource conflict, such as a duplicate entry.
	CodeConflict = "conflict"

	// CodeInternalError indicates an unexpected server error.
	CodeInternalError = "internal_error"

	// CodeValidationError indicates request validation failed.
	CodeValidationError = "validation_error"

	// CodeInvalidCredentials indicates provided authentication credentials are incorrect.
	CodeInvalidCredentials = "invalid_credentials"

	// CodeTokenExpired indicates an authentication token has expired.
	CodeTokenExpired = "token_expired"

	// CodeTokenInvalid indicates an authentication token is malformed or invalid.
	CodeTokenInvalid = "token_invalid"

	// CodeStorageError indicates a failed write to a collection backing file.
	CodeStorageError = "storage_error"

	// CodeSnapshotParse indicates a backup snapshot could not be parsed.
	CodeSnapshotParse = "snapshot_parse_failed"

	// CodeServiceUnavailable indicates the service cannot serve requests,
	// typically because the data directory is unreachable.
	CodeServiceUnavailable = "service_unavailable"
)

// User-Facing Error Messages define standardized messages that can be safely
// presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgResourceNotFound provides a generic not-found message.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgMethodNotAllowed indicates the HTTP method is not supported.
	MsgMethodNotAllowed = "Method not allowed"

	// MsgInvalidPassword indicates login credentials are incorrect.
	MsgInvalidPassword = "Invalid username or password"

	// MsgEmptyRequestBody indicates the request body was empty.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates the request body contained malformed JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgRequestBodyTooLarge indicates the request body exceeded the size limit.
	MsgRequestBodyTooLarge = "Request body must not be larger than 1MB"

	// MsgStorageWriteFailed indicates a mutation could not be persisted.
	MsgStorageWriteFailed = "The change could not be saved to storage"
)
