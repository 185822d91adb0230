package ratelimit

import (
	"encoding/json"
	"testing"
	"time"

	xhttp "github.com/omytech/contact-api/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(window time.Duration, max int) (*Limiter, *fakeClock) {
	l := New(window, max, "Too many requests, please try again later.")
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l.SetClock(clock.Now)
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("requests within the limit pass", func(t *testing.T) {
		l, _ := newTestLimiter(15*time.Minute, 5)

		for i := 0; i < 5; i++ {
			res := l.Allow("10.0.0.1")
			assert.True(t, res.Allowed)
			assert.Equal(t, 5, res.Limit)
			assert.Equal(t, 4-i, res.Remaining)
		}
	})

	t.Run("request over the limit is denied", func(t *testing.T) {
		l, _ := newTestLimiter(15*time.Minute, 5)

		for i := 0; i < 5; i++ {
			l.Allow("10.0.0.1")
		}
		res := l.Allow("10.0.0.1")
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("denied requests do not extend the window", func(t *testing.T) {
		l, clock := newTestLimiter(15*time.Minute, 5)

		for i := 0; i < 8; i++ {
			l.Allow("10.0.0.1")
		}
		clock.Advance(15 * time.Minute)
		assert.True(t, l.Allow("10.0.0.1").Allowed)
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		l, clock := newTestLimiter(15*time.Minute, 5)

		for i := 0; i < 5; i++ {
			l.Allow("10.0.0.1")
		}
		require.False(t, l.Allow("10.0.0.1").Allowed)

		clock.Advance(15 * time.Minute)
		res := l.Allow("10.0.0.1")
		assert.True(t, res.Allowed)
		assert.Equal(t, 4, res.Remaining)
	})

	t.Run("an almost expired window still counts", func(t *testing.T) {
		l, clock := newTestLimiter(15*time.Minute, 5)

		for i := 0; i < 5; i++ {
			l.Allow("10.0.0.1")
		}
		clock.Advance(15*time.Minute - time.Second)
		assert.False(t, l.Allow("10.0.0.1").Allowed)
	})

	t.Run("clients are counted independently", func(t *testing.T) {
		l, _ := newTestLimiter(15*time.Minute, 5)

		for i := 0; i < 5; i++ {
			require.True(t, l.Allow("10.0.0.1").Allowed)
		}
		require.False(t, l.Allow("10.0.0.1").Allowed)

		res := l.Allow("10.0.0.2")
		assert.True(t, res.Allowed)
		assert.Equal(t, 4, res.Remaining)
	})

	t.Run("reset counts down with the clock", func(t *testing.T) {
		l, clock := newTestLimiter(15*time.Minute, 5)

		res := l.Allow("10.0.0.1")
		assert.Equal(t, 900, res.Reset)

		clock.Advance(10 * time.Minute)
		res = l.Allow("10.0.0.1")
		assert.Equal(t, 300, res.Reset)
	})

	t.Run("high volume api window", func(t *testing.T) {
		l, _ := newTestLimiter(15*time.Minute, 100)

		for i := 0; i < 100; i++ {
			require.True(t, l.Allow("10.0.0.1").Allowed)
		}
		assert.False(t, l.Allow("10.0.0.1").Allowed)
	})
}

func TestLimiter_Handler(t *testing.T) {
	t.Run("allowed request reaches the route and carries headers", func(t *testing.T) {
		l, _ := newTestLimiter(15*time.Minute, 5)

		called := false
		h := l.Handler(func(ctx *xhttp.RequestCtx) {
			called = true
			ctx.Response.SetStatusCode(xhttp.StatusOK)
		})

		ctx := &fasthttp.RequestCtx{}
		h(ctx)

		assert.True(t, called)
		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Equal(t, "5", string(ctx.Response.Header.Peek("RateLimit-Limit")))
		assert.Equal(t, "4", string(ctx.Response.Header.Peek("RateLimit-Remaining")))
		assert.Equal(t, "900", string(ctx.Response.Header.Peek("RateLimit-Reset")))
	})

	t.Run("denied request is refused with the limiter message", func(t *testing.T) {
		l, _ := newTestLimiter(15*time.Minute, 2)

		called := 0
		h := l.Handler(func(ctx *xhttp.RequestCtx) {
			called++
		})

		for i := 0; i < 2; i++ {
			h(&fasthttp.RequestCtx{})
		}

		ctx := &fasthttp.RequestCtx{}
		h(ctx)

		assert.Equal(t, 2, called)
		assert.Equal(t, 429, ctx.Response.StatusCode())
		assert.Equal(t, "0", string(ctx.Response.Header.Peek("RateLimit-Remaining")))

		var body refusal
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Too many requests, please try again later.", body.Message)
	})
}
