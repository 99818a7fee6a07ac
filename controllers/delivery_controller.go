package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/services"
)

// DeliveryLineRequest is one material position of an incoming delivery.
// An unknown material_name is created in the catalog automatically.
type DeliveryLineRequest struct {
	MaterialID   uint    `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Type         string  `json:"type"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	CostPerUnit  float64 `json:"cost_per_unit" binding:"required,gt=0"`
}

// CreateDeliveryRequest represents the request body for booking in a
// supplier delivery
type CreateDeliveryRequest struct {
	SupplierID   uint                  `json:"supplier_id" binding:"required"`
	DeliveryDate time.Time             `json:"delivery_date" binding:"required"`
	DocumentPath *string               `json:"document_path"`
	Materials    []DeliveryLineRequest `json:"materials" binding:"required,min=1,dive"`
}

// ListDeliveries handles GET /api/v1/deliveries
func ListDeliveries(c *gin.Context) {
	intake := services.NewDeliveryIntake(config.GetDB())
	deliveries, err := intake.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load deliveries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    deliveries,
	})
}

// GetDelivery handles GET /api/v1/deliveries/:id
func GetDelivery(c *gin.Context) {
	deliveryID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	intake := services.NewDeliveryIntake(config.GetDB())
	delivery, err := intake.Get(deliveryID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    delivery,
	})
}

// CreateDelivery handles POST /api/v1/deliveries - inserts the delivery and
// adds every line's quantity to material stock. Administrators only.
func CreateDelivery(c *gin.Context) {
	var req CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "supplier_id, delivery_date and at least one material line are required",
				"details": err.Error(),
			},
		})
		return
	}

	input := services.CreateDeliveryInput{
		SupplierID:   req.SupplierID,
		DeliveryDate: req.DeliveryDate,
		DocumentPath: req.DocumentPath,
	}
	for _, line := range req.Materials {
		input.Lines = append(input.Lines, services.DeliveryLine{
			Ref: services.MaterialRef{
				MaterialID:  line.MaterialID,
				Name:        line.MaterialName,
				Type:        line.Type,
				Unit:        line.Unit,
				CostPerUnit: line.CostPerUnit,
			},
			Quantity:    line.Quantity,
			CostPerUnit: line.CostPerUnit,
		})
	}

	intake := services.NewDeliveryIntake(config.GetDB())
	delivery, err := intake.Create(input)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    delivery,
	})
}

// DeleteDelivery handles DELETE /api/v1/deliveries/:id - reverses the booked
// stock; fails if part of it was already consumed by orders. Administrators
// only.
func DeleteDelivery(c *gin.Context) {
	deliveryID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	intake := services.NewDeliveryIntake(config.GetDB())
	if err := intake.Delete(deliveryID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
