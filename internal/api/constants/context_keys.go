package constants

// Context keys set by middleware for later handlers
const (
	ContextKeyRequestID = "requestID"
	ContextKeyClientIP  = "clientIP"
)

// Headers consulted for the client address, in order of preference
const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderClientIP     = "Client-IP"
	HeaderRealIP       = "X-Real-IP"
	HeaderRequestID    = "X-Request-ID"
)

// UnknownClient is the shared bucket for requests without address headers
const UnknownClient = "unknown"
