package values

// ContextKey is the type used for request-scoped context values.
type ContextKey string

const (
	ContextTracingKey ContextKey = "tracing-context"

	HeaderRequestID     = "X-Request-Id"
	HeaderRequestSource = "X-Request-Source"
)

// Status strings returned by helpers and mapped to HTTP codes in util.StatusCode.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	Failed         = "failed"
	BadRequest     = "bad-request"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	NotAuthorised  = "not-authorised"
	NotFound       = "not-found"
	Conflict       = "conflict"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"
	SystemErr      = "system-error"
	InternalError  = "internal-error"
)
