// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity. Authentication happens upstream of
// this service (an API gateway or the platform's session layer), which
// forwards the authenticated user and role as X-User-ID and X-User-Role.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the authenticated user identifier.
	HeaderUserID = "X-User-ID"
	// HeaderUserRole carries the caller role ("admin" unlocks engine settings).
	HeaderUserRole = "X-User-Role"

	// RoleAdmin is the role allowed to read and change engine settings.
	RoleAdmin = "admin"

	ctxKeyUserID   = "userID"
	ctxKeyUserRole = "userRole"

	// fallbackUserID keeps local development usable without a gateway.
	fallbackUserID = "demo-user"
)

// Identity copies the forwarded identity headers into the Gin context so
// that rate limiting, idempotency and handlers agree on who is calling.
// Values already present in the context (set by a test or another
// middleware) win over headers.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxKeyUserID); !ok {
			if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
				c.Set(ctxKeyUserID, uid)
			}
		}
		if _, ok := c.Get(ctxKeyUserRole); !ok {
			if role := strings.TrimSpace(c.GetHeader(HeaderUserRole)); role != "" {
				c.Set(ctxKeyUserRole, strings.ToLower(role))
			}
		}
		c.Next()
	}
}

// UserID returns the caller identity, falling back to the X-User-ID header
// and finally to "demo-user".
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
		return uid
	}
	return fallbackUserID
}

// UserRole returns the lower-cased caller role or "" when none was given.
func UserRole(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderUserRole)))
}

// RequireRole aborts with 403 unless the caller carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	role = strings.ToLower(role)
	return func(c *gin.Context) {
		if UserRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "forbidden",
				"message":    "insufficient role",
			})
			return
		}
		c.Next()
	}
}
