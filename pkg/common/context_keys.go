package common

type contextKey string

const (
	TraceIdKey        contextKey = "trace_id"
	SessionContextKey contextKey = "telemetry_session"
	LatencyContextKey contextKey = "__execution_time"
)
