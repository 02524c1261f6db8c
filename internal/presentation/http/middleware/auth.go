package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	infraRepo "github.com/pharmaline/pos-api/internal/infrastructure/repository"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/response"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware. Besides setting the
// user identity on the Gin context, it scopes the request context to the
// user's store so repositories only see that store's rows. Super admins run
// unscoped.
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

		c.Set("user_id", claims.UserID)
		c.Set("store_id", claims.StoreID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)

		ctx := infraRepo.WithStore(c.Request.Context(), claims.StoreID)
		if claims.Role == entity.RoleSuperAdmin {
			ctx = infraRepo.WithSkipStoreScope(ctx, true)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("user_role")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, required := range roles {
			if userRole == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// RequireAdmin requires the admin or super-admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin)
}
