// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP-related constants such as headers, content
// types, and security header values. These constants ensure consistent HTTP
// communication patterns across the application. The security header values
// implement recommended web security practices.
package constants

// HTTP Response Flags indicate overall request outcome in the response envelope.
const (
	// ResponseSuccess indicates that the request was processed successfully.
	ResponseSuccess = true

	// ResponseFailure indicates that the request processing failed.
	ResponseFailure = false
)

// HTTP Header Names define common HTTP headers used in requests and responses.
const (
	// HeaderContentType specifies the media type of the resource.
	HeaderContentType = "Content-Type"

	// HeaderContentLength specifies the size of the entity-body in bytes.
	HeaderContentLength = "Content-Length"

	// HeaderContentDisposition suggests how the content should be displayed.
	HeaderContentDisposition = "Content-Disposition"

	// HeaderCacheControl directs caching behavior for the request/response chain.
	HeaderCacheControl = "Cache-Control"

	// HeaderAuthorization provides authentication credentials for HTTP authentication.
	HeaderAuthorization = "Authorization"

	// HeaderXRequestID contains a unique identifier for the HTTP request.
	HeaderXRequestID = "X-Request-ID"

	// HeaderUserAgent identifies the client software making the request.
	HeaderUserAgent = "User-Agent"

	// HeaderXContentTypeOptions prevents MIME type sniffing.
	HeaderXContentTypeOptions = "X-Content-Type-Options"

	// HeaderXFrameOptions controls whether the page can be embedded in frames.
	HeaderXFrameOptions = "X-Frame-Options"

	// HeaderXXSSProtection enables cross-site scripting filters in browsers.
	HeaderXXSSProtection = "X-XSS-Protection"

	// HeaderReferrerPolicy controls the referrer information sent with requests.
	HeaderReferrerPolicy = "Referrer-Policy"
)

// HTTP Header Values define standard values used with the headers above.
const (
	// ContentTypeJSON is the content type for JSON payloads.
	ContentTypeJSON = "application/json"

	// ContentTypeOctetStream is the content type for binary downloads.
	ContentTypeOctetStream = "application/octet-stream"

	// CacheControlNoStore disables caching entirely.
	CacheControlNoStore = "no-store, no-cache, must-revalidate"

	// ContentTypeOptionsNoSniff prevents browsers from MIME sniffing.
	ContentTypeOptionsNoSniff = "nosniff"

	// FrameOptionsDeny disallows any framing of responses.
	FrameOptionsDeny = "DENY"

	// XSSProtectionModeBlock enables XSS filtering with page blocking.
	XSSProtectionModeBlock = "1; mode=block"

	// ReferrerPolicyStrictOrigin only sends the origin for cross-origin requests.
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"

	// BearerTokenPrefix is the prefix of Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "
)
