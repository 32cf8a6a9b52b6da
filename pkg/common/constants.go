package common

const (
	SessionIDHeader       = "X-Session-ID"
	SessionIDQueryParam   = "session_id"
	TraceIDHeader         = "X-Trace-Id"
	ContentEncodingHeader = "Content-Encoding"
)
