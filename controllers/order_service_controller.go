package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// AttachServiceRequest represents the request body for adding a service line
// to an order
type AttachServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// ChangeServiceStatusRequest represents the request body for moving a service
// line through the production workflow
type ChangeServiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrderServices handles GET /api/v1/orders/:id/services
func ListOrderServices(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var lines []models.OrderService
	if err := db.Preload("Service").Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    lines,
	})
}

// AttachService handles POST /api/v1/orders/:id/services
func AttachService(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AttachServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "service_id and a positive quantity are required",
				"details": err.Error(),
			},
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	line, err := lifecycle.AttachService(orderID, req.ServiceID, req.Quantity, user.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    line,
	})
}

// DetachService handles DELETE /api/v1/orders/:id/services/:serviceId
func DetachService(c *gin.Context) {
	orderServiceID, ok := uintParam(c, "serviceId")
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	if err := lifecycle.DetachService(orderServiceID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeOrderServiceStatus handles PATCH /api/v1/orders/services/:id/status
func ChangeOrderServiceStatus(c *gin.Context) {
	orderServiceID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ChangeServiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "status is required",
				"details": err.Error(),
			},
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	line, err := lifecycle.ChangeServiceStatus(orderServiceID, req.Status, user.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    line,
	})
}
