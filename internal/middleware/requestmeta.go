// Package middleware provides the HTTP middlewares of the service.
package middleware

import (
	"net"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/clicks"
)

// RequestMeta captures the click-relevant request headers into the context
// before handlers run. Interpretation of the headers (fallback chains, geo
// derivation) happens later in the clicks package; this middleware only
// records what was sent.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := clicks.RequestMeta{
			ForwardedFor:   ctx.Header("X-Forwarded-For"),
			RemoteAddr:     remoteHost(ctx),
			UserAgent:      ctx.Header("User-Agent"),
			Referrer:       ctx.Header("Referer"),
			CountryHeader:  ctx.Header("CF-IPCountry"),
			AcceptLanguage: ctx.Header("Accept-Language"),
		}

		newCtx := clicks.ContextWithMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

// remoteHost returns the peer address of the connection without its port.
func remoteHost(ctx huma.Context) string {
	addr := ctx.RemoteAddr()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}
