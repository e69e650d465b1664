package contextkeys

import "context"

// contextKey is unexported so no other package can collide with our keys.
type contextKey string

const (
	// RequestIDKey carries the per-request correlation id.
	RequestIDKey contextKey = "request_id"
	// UserIDKey carries the authenticated user id.
	UserIDKey contextKey = "user_id"
	// CompanyIDKey carries the company a request is scoped to.
	CompanyIDKey contextKey = "company_id"
	// OperationKey carries the logical operation name for log correlation.
	OperationKey contextKey = "operation"
)

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// WithCompanyID returns a context carrying the company scope.
func WithCompanyID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CompanyIDKey, id)
}

// WithOperation returns a context carrying the operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, OperationKey, op)
}

// StringValue extracts a string value for key, or "" when absent.
func StringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
