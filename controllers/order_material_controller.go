package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// AttachMaterialRequest represents the request body for attaching a material
// to an order. Either material_id or material_name must be supplied; a name
// without an id auto-creates the material in the catalog.
type AttachMaterialRequest struct {
	MaterialID   uint    `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Type         string  `json:"type"`
	Unit         string  `json:"unit"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
}

// UpdateOrderMaterialRequest represents the request body for editing a
// reserved quantity
type UpdateOrderMaterialRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// ListOrderMaterials handles GET /api/v1/orders/:id/materials
func ListOrderMaterials(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var links []models.OrderMaterial
	if err := db.Preload("Material").Where("order_id = ?", orderID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order materials",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    links,
	})
}

// AttachMaterial handles POST /api/v1/orders/:id/materials - reserves stock
// and creates the order-material link in one transaction
func AttachMaterial(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AttachMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A material reference and a positive quantity are required",
				"details": err.Error(),
			},
		})
		return
	}

	if req.MaterialID == 0 && req.MaterialName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Either material_id or material_name must be provided",
			},
		})
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	link, err := lifecycle.AttachMaterial(orderID, services.MaterialRef{
		MaterialID:  req.MaterialID,
		Name:        req.MaterialName,
		Type:        req.Type,
		Unit:        req.Unit,
		CostPerUnit: req.CostPerUnit,
	}, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    link,
	})
}

// UpdateOrderMaterial handles PUT /api/v1/orders/:id/materials/:materialId -
// adjusts the reservation by the delta between the stored and new quantity
func UpdateOrderMaterial(c *gin.Context) {
	orderMaterialID, ok := uintParam(c, "materialId")
	if !ok {
		return
	}

	var req UpdateOrderMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A positive quantity is required",
				"details": err.Error(),
			},
		})
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	link, err := lifecycle.UpdateMaterialQuantity(orderMaterialID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    link,
	})
}

// DetachMaterial handles DELETE /api/v1/orders/:id/materials/:materialId -
// returns the reserved quantity to stock and removes the link.
// Administrators only.
func DetachMaterial(c *gin.Context) {
	orderMaterialID, ok := uintParam(c, "materialId")
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	if err := lifecycle.DetachMaterial(orderMaterialID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
