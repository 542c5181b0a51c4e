package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit returns an HTTP middleware that limits requests per IP address
// to the specified number per minute. Uses a sliding window algorithm. The
// image endpoints sit behind this so a scraper can't turn the Open Graph
// renderer into a CPU sink.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}

// RateLimitBySandbox returns an HTTP middleware that limits requests per
// sandbox deployment ID, falling back to the client IP when the header is
// absent.
func RateLimitBySandbox(headerName string, requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if id := r.Header.Get(headerName); id != "" {
				return id, nil
			}
			return httprate.KeyByIP(r)
		}),
	)
}
