package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
)

// GetStaffID extracts the staff ID from the Gin context
func GetStaffID(c *gin.Context) *uuid.UUID {
	staffIDVal, exists := c.Get("staff_id")
	if !exists {
		return nil
	}
	staffID, ok := staffIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &staffID
}

// GetActorRole extracts the acting staff role from the Gin context. The
// domain policies take the role explicitly so authorization decisions stay
// testable outside HTTP.
func GetActorRole(c *gin.Context) (enum.Role, bool) {
	roleVal, exists := c.Get("staff_role")
	if !exists {
		return "", false
	}
	role, ok := roleVal.(enum.Role)
	return role, ok
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
