package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduverse-labs/eduverse-api/internal/service"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
	"github.com/eduverse-labs/eduverse-api/pkg/response"
)

// ContextUserKey is the gin context key storing session claims.
const ContextUserKey = "currentUser"

// RefreshedTokenHeader carries a reissued session token back to the
// client when stale claims were re-synchronized mid-request.
const RefreshedTokenHeader = "X-Refreshed-Token"

// JWT protects routes by requiring a valid session token. Claims older
// than the refresh interval are re-synchronized with the users table
// before the handler runs, so role changes take effect without a new
// login.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if token, refreshed := authService.Refresh(c.Request.Context(), claims); token != "" {
			c.Header(RefreshedTokenHeader, token)
			claims = refreshed
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
