package security

import (
	"github.com/gin-gonic/gin"
)

// csp restricts the embedded assessment form to its own origin. The form
// ships inline script and style in a single static page, so both keep
// 'unsafe-inline'; no third-party origin is ever contacted.
const csp = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; " +
	"connect-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// Headers sets browser security headers on every response. The service
// renders patient-derived data, so framing and MIME sniffing stay locked
// down; HSTS is opt-in because deployments behind a TLS-terminating proxy
// differ.
func Headers(enableHSTS bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Header("Content-Security-Policy", csp)
		if enableHSTS {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
