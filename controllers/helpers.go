package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/middleware"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// currentUser resolves the acting user from the validated JWT subject.
// History attribution and ownership checks use the database user, not the
// raw token.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// uintParam parses a numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// respondDomainError translates a services error into the HTTP envelope.
// Conflicts name the specific blocking condition so clients can retry
// intelligently.
func respondDomainError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	var insufficientStock *services.InsufficientStockError
	var duplicateMaterial *services.DuplicateMaterialError
	var materialInUse *services.MaterialInUseError
	var workloadExceeded *services.WorkloadExceededError
	var invalidState *services.InvalidStateError
	var invalidStatus *services.InvalidStatusError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": notFound.Error(),
			},
		})
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": insufficientStock.Error(),
				"details": gin.H{
					"material_id":   insufficientStock.MaterialID,
					"material_name": insufficientStock.MaterialName,
					"requested":     insufficientStock.Requested,
					"available":     insufficientStock.Available,
				},
			},
		})
	case errors.As(err, &duplicateMaterial):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_MATERIAL",
				"message": duplicateMaterial.Error(),
			},
		})
	case errors.As(err, &materialInUse):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_IN_USE",
				"message": materialInUse.Error(),
			},
		})
	case errors.As(err, &workloadExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKLOAD_EXCEEDED",
				"message": workloadExceeded.Error(),
				"details": gin.H{
					"employee_id":   workloadExceeded.EmployeeID,
					"active_orders": workloadExceeded.ActiveOrders,
					"limit":         workloadExceeded.Limit,
				},
			},
		})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": invalidState.Error(),
			},
		})
	case errors.As(err, &invalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": invalidStatus.Error(),
			},
		})
	case errors.Is(err, services.ErrDuplicateAssignment):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_ASSIGNMENT",
				"message": err.Error(),
			},
		})
	case errors.Is(err, services.ErrConflictingMaterials):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICTING_MATERIALS",
				"message": err.Error(),
			},
		})
	case errors.Is(err, services.ErrSequenceExhausted):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRACKING_CONFLICT",
				"message": err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Unexpected database error",
			},
		})
	}
}
