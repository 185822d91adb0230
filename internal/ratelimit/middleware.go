package ratelimit

import (
	"encoding/json"
	"strconv"

	xhttp "github.com/omytech/contact-api/pkg/http"
)

type refusal struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler wraps a route handler with this limiter. Clients are identified by
// their network origin. Draft standard RateLimit-* headers are set on every
// response, legacy X-RateLimit-* headers are not emitted.
func (l *Limiter) Handler(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		res := l.Allow(ctx.RemoteIP().String())

		ctx.Response.Header.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
		ctx.Response.Header.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		ctx.Response.Header.Set("RateLimit-Reset", strconv.Itoa(res.Reset))

		if !res.Allowed {
			body, _ := json.Marshal(refusal{Success: false, Message: l.message})
			ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
			ctx.Response.SetStatusCode(xhttp.StatusTooManyRequests)
			ctx.Response.SetBodyRaw(body)
			return
		}
		next(ctx)
	}
}
