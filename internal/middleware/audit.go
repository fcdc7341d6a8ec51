package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/service"
)

var auditActions = map[string]string{
	"POST":   "create",
	"PUT":    "update",
	"PATCH":  "update",
	"DELETE": "delete",
}

// Audit records one entry per mutating request. Persistence is asynchronous;
// request latency never waits on the audit store.
func Audit(audits *service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action, mutating := auditActions[c.Request.Method]
		if !mutating {
			return
		}

		entry := service.AuditEntry{
			Action:       action,
			ResourceType: resourceFromPath(c.FullPath()),
			ResourceID:   lastPathParam(c),
			IPAddress:    c.ClientIP(),
			RequestID:    GetRequestID(c),
			StatusCode:   c.Writer.Status(),
		}
		if claims, ok := GetClaims(c); ok {
			entry.UserID = claims.UserID
			entry.Username = claims.Username
			entry.UserRole = string(claims.Role)
		}
		audits.LogAsync(c.Request.Context(), entry)
	}
}

// resourceFromPath extracts the first segment after the API prefix, e.g.
// "case" from /api/v1/case/:case_code.
func resourceFromPath(path string) string {
	path = strings.TrimPrefix(path, "/api/v1/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// lastPathParam returns the route's trailing parameter value, which is the
// business code for all code-addressed resources.
func lastPathParam(c *gin.Context) string {
	if n := len(c.Params); n > 0 {
		return c.Params[n-1].Value
	}
	return ""
}
