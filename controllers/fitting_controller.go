package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/services"
)

// FittingRequest represents the request body for scheduling or editing a
// fitting appointment
type FittingRequest struct {
	FittingDate time.Time `json:"fitting_date" binding:"required"`
	Result      string    `json:"result"`
	Notes       string    `json:"notes"`
}

// ListFittings handles GET /api/v1/orders/:id/fittings
func ListFittings(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	scheduler := services.NewFittingScheduler(config.GetDB())
	fittings, err := scheduler.List(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fittings,
	})
}

// AddFitting handles POST /api/v1/orders/:id/fittings - the order's
// fitting_date mirror is resynced to the earliest scheduled fitting
func AddFitting(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req FittingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "fitting_date is required",
				"details": err.Error(),
			},
		})
		return
	}

	scheduler := services.NewFittingScheduler(config.GetDB())
	fitting, err := scheduler.Add(orderID, services.FittingInput{
		FittingDate: req.FittingDate,
		Result:      req.Result,
		Notes:       req.Notes,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    fitting,
	})
}

// UpdateFitting handles PUT /api/v1/fittings/:id
func UpdateFitting(c *gin.Context) {
	fittingID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req FittingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "fitting_date is required",
				"details": err.Error(),
			},
		})
		return
	}

	scheduler := services.NewFittingScheduler(config.GetDB())
	fitting, err := scheduler.Update(fittingID, services.FittingInput{
		FittingDate: req.FittingDate,
		Result:      req.Result,
		Notes:       req.Notes,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fitting,
	})
}

// DeleteFitting handles DELETE /api/v1/fittings/:id
func DeleteFitting(c *gin.Context) {
	fittingID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	scheduler := services.NewFittingScheduler(config.GetDB())
	if err := scheduler.Delete(fittingID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
