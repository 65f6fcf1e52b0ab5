package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/authz"
	"github.com/yungbote/framevault-backend/internal/observability"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
)

// Authorize checks the caller's role against the route pattern. Anonymous
// callers that are denied get a 401 so clients know to sign in.
func Authorize(enforcer *authz.Enforcer, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enforcer == nil || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		role := authz.RoleAnonymous
		id := ctxutil.GetIdentity(c.Request.Context())
		if id != nil && id.Role != "" {
			role = id.Role
		}
		if enforcer.Allow(role, path, c.Request.Method) {
			c.Next()
			return
		}
		metrics.IncSecurityEvent("route_denied")
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "authentication required", "code": "unauthorized"},
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{"message": "forbidden", "code": "forbidden"},
		})
	}
}
