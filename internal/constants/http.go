package constants

import "time"

// HTTP Server Timeouts
const (
	HTTPReadTimeout  = 30 * time.Second
	HTTPWriteTimeout = 60 * time.Second
	HTTPIdleTimeout  = 120 * time.Second
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// HTTP Header Names
const (
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderVary            = "Vary"
	HeaderRequestID       = "X-Request-ID"
	HeaderForwardedFor    = "X-Forwarded-For"
	HeaderRealIP          = "X-Real-IP"
)

// CORS
const (
	HeaderOrigin           = "Origin"
	HeaderACAllowOrigin    = "Access-Control-Allow-Origin"
	HeaderACAllowMethods   = "Access-Control-Allow-Methods"
	HeaderACAllowHeaders   = "Access-Control-Allow-Headers"
	HeaderACAllowCreds     = "Access-Control-Allow-Credentials"
	HeaderACMaxAge         = "Access-Control-Max-Age"
	CORSAllowedMethods     = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	CORSAllowedHeaders     = "Content-Type, Authorization, X-API-Key, X-Request-ID"
	CORSPreflightMaxAgeSec = "600"
)
