package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/response"
	"github.com/tablewise/tablewise-api/pkg/utils"
)

// AuthMiddleware validates the staff access token and stores the actor's
// identity and role in the request context. Tokens are issued by the external
// identity service; this API only verifies them.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		role, ok := enum.ParseRole(claims.Role)
		if !ok {
			response.Unauthorized(c, "Token carries an unknown role")
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("staff_store_id", claims.StoreID)
		c.Set("staff_role", role)

		c.Next()
	}
}

// RequireRole requires the actor to hold at least the given role. Finer
// decisions, like the discount tiers, live in the domain policy; this guards
// whole route groups.
func RequireRole(min enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("staff_role")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		role, ok := roleVal.(enum.Role)
		if !ok || !role.AtLeast(min) {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}

		c.Next()
	}
}
