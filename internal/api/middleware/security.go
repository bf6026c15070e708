package middleware

import (
	"net/http"
	"strings"
)

// landingCSP allows Stripe.js on the landing page and nothing else foreign
const landingCSP = "default-src 'self'; " +
	"script-src 'self' https://js.stripe.com; " +
	"frame-src https://js.stripe.com https://checkout.stripe.com; " +
	"connect-src 'self' https://api.stripe.com; " +
	"img-src 'self' data:; " +
	"style-src 'self' 'unsafe-inline'"

// SecurityHeaders adds common security headers to responses
func SecurityHeaders(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// the swagger UI ships inline scripts
			if !strings.HasPrefix(r.URL.Path, "/swagger/") {
				h.Set("Content-Security-Policy", landingCSP)
			}

			// HSTS only makes sense once we are served over TLS
			if production {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
