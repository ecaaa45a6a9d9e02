package utils

type contextKey string

// Context keys shared across middleware and handlers.
const (
	UserIDKey    contextKey = "user_id"
	UserKey      contextKey = "user"
	RequestIDKey contextKey = "request_id"
)
