package repository

import "context"

type sessionSecretKey struct{}

// WithSessionSecret binds a remote session secret to ctx so gateway calls act
// on behalf of the signed-in admin.
func WithSessionSecret(ctx context.Context, secret string) context.Context {
	return context.WithValue(ctx, sessionSecretKey{}, secret)
}

// SessionSecret returns the secret bound by WithSessionSecret, if any.
func SessionSecret(ctx context.Context) string {
	secret, _ := ctx.Value(sessionSecretKey{}).(string)
	return secret
}
