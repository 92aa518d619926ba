package sessid

import "context"

type clientIPContextKey struct{}
type requestIDContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. Authenticate copies
// it into audit events and rejection logs.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithRequestID attaches a request correlation ID to ctx for audit events.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

// auditMetadata collects the request attributes carried by ctx, or nil.
func auditMetadata(ctx context.Context) map[string]string {
	ip := clientIPFromContext(ctx)
	requestID := requestIDFromContext(ctx)
	if ip == "" && requestID == "" {
		return nil
	}

	md := make(map[string]string, 2)
	if ip != "" {
		md["client_ip"] = ip
	}
	if requestID != "" {
		md["request_id"] = requestID
	}
	return md
}
