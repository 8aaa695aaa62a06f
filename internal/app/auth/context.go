package auth

import "context"

type tokenCheckKey struct{}

// WithTokenCheck marks ctx as coming from a transport where admin rights
// must be proven per request. verified reports whether this request carried
// a valid admin token for its chat. Contexts without the mark trust the
// stored admin flag alone.
func WithTokenCheck(ctx context.Context, verified bool) context.Context {
	return context.WithValue(ctx, tokenCheckKey{}, verified)
}

func tokenRejected(ctx context.Context) bool {
	verified, ok := ctx.Value(tokenCheckKey{}).(bool)
	return ok && !verified
}
