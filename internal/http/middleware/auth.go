package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/observability"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type AuthMiddleware struct {
	log            *logger.Logger
	sessionService services.SessionService
	metrics        *observability.Metrics
}

func NewAuthMiddleware(log *logger.Logger, sessionService services.SessionService, metrics *observability.Metrics) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, sessionService: sessionService, metrics: metrics}
}

// OptionalAuth attaches the caller's identity when a token is present.
// Requests without a token pass through as anonymous; a bad token is a 401.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctxutil.GetIdentity(c.Request.Context()) != nil {
			c.Next()
			return
		}
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			am.metrics.IncSecurityEvent("missing_token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context, tokenString string) bool {
	ctx, err := am.sessionService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("session rejected", "path", c.Request.URL.Path, "error", err)
		am.metrics.IncSecurityEvent("invalid_session")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": err.Error(), "code": "unauthorized"},
		})
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

// extractTokenFromAll accepts ?token= because EventSource cannot set headers.
func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
