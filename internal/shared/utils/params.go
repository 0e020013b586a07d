package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/corvid-crm/corvid/internal/shared/errors"
)

// ParseIDParam reads a positive numeric ID from the route parameter
// paramName. entityName is used in the error message.
func ParseIDParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return uint(v), nil
}
