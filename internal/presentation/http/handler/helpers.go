package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/response"
	"github.com/pharmaline/pos-api/pkg/validator"
)

// bindJSON binds the JSON body into req, writing the error response itself
// on failure. Validation failures get per-field messages; anything else
// (malformed JSON) gets a generic bad request.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fieldErrs := validator.TranslateBindingError(err); fieldErrs != nil {
			response.ValidationError(c, fieldErrs)
		} else {
			response.BadRequest(c, "Invalid request body")
		}
		return false
	}
	return true
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetStoreID extracts the store ID from the Gin context
func GetStoreID(c *gin.Context) uuid.UUID {
	storeIDVal, exists := c.Get("store_id")
	if !exists {
		return uuid.Nil
	}
	storeID, ok := storeIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return storeID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	r, ok := role.(string)
	if !ok {
		return ""
	}
	return r
}

// IsSuperAdmin checks if the current user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	return GetUserRole(c) == entity.RoleSuperAdmin
}

// IsAdmin checks if the current user can manage catalog and staff
func IsAdmin(c *gin.Context) bool {
	role := GetUserRole(c)
	return role == entity.RoleAdmin || role == entity.RoleSuperAdmin
}
