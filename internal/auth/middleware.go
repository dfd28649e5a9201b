package auth

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Middleware returns a huma middleware that resolves the session cookie
// into an identity on the request context. Requests without a valid
// session pass through anonymously; operations that require an identity
// reject at the handler boundary.
func Middleware(_ huma.API, secret []byte) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cookie, err := readCookie(ctx, SessionCookie)
		if err == nil {
			if email, err := ParseSessionToken(secret, cookie.Value); err == nil {
				ctx = huma.WithContext(ctx, ContextWithIdentity(ctx.Context(), email))
			}
		}

		next(ctx)
	}
}

func readCookie(ctx huma.Context, name string) (*http.Cookie, error) {
	req := http.Request{Header: http.Header{"Cookie": []string{ctx.Header("Cookie")}}}

	return req.Cookie(name)
}
