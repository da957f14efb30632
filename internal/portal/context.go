package portal

import "context"

type ctxKey int

const clientIPKey ctxKey = iota

// WithClientIP returns a context carrying the requester's address for the
// activity log.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the address stored by WithClientIP.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
