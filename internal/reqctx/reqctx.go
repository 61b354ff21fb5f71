package reqctx

import "context"

type key int

const (
	keyRequestID key = iota
	keyToken
	keySession
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok && v != ""
}

// WithToken stores the admin's access token, forwarded on backend calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyToken, token)
}

func Token(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyToken).(string)
	return v, ok && v != ""
}

// WithSession stores the stable, non-secret key derived from the token.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, keySession, session)
}

func Session(ctx context.Context) string {
	v, _ := ctx.Value(keySession).(string)
	return v
}
