package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	ClientID        uint       `json:"client_id" binding:"required"`
	TotalCost       float64    `json:"total_cost" binding:"required,gt=0"`
	FittingDate     *time.Time `json:"fitting_date"`
	DeadlineDate    *time.Time `json:"deadline_date"`
	Comment         *string    `json:"comment"`
	UseOwnMaterials bool       `json:"use_own_materials"`
}

// UpdateOrderRequest represents the request body for editing an order
type UpdateOrderRequest struct {
	DeadlineDate *time.Time `json:"deadline_date" binding:"required"`
	Comment      *string    `json:"comment"`
}

// ChangeStatusRequest represents the request body for a status transition
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders handles GET /api/v1/orders - lists all orders with client info
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Client").Order("id DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one order with its client
func GetOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	order, err := lifecycle.GetOrder(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetStatusCounts handles GET /api/v1/orders/status-counts - order counts per status
func GetStatusCounts(c *gin.Context) {
	db := config.GetDB()

	type statusCount struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}

	var rows []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	// Every status appears in the response, zero or not.
	counts := make(map[string]int, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// GetOverdueOrders handles GET /api/v1/orders/overdue - open orders past deadline
func GetOverdueOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Client").
		Where("status NOT IN ?", []string{models.StatusReady, models.StatusCompleted, models.StatusCancelled}).
		Where("deadline_date < ?", time.Now()).
		Order("deadline_date ASC").
		Limit(10).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load overdue orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetMyAssignedOrders handles GET /api/v1/orders/assigned-to-me - orders
// assigned to the acting user's employee record, cancelled ones excluded
func GetMyAssignedOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var employee models.Employee
	if err := db.Where("user_id = ?", user.ID).First(&employee).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPLOYEE_NOT_FOUND",
				"message": "No employee record for the current user",
			},
		})
		return
	}

	var orders []models.Order
	if err := db.Preload("Client").
		Joins("JOIN order_employees ON order_employees.order_id = orders.id").
		Where("order_employees.employee_id = ?", employee.ID).
		Where("orders.status <> ?", models.StatusCancelled).
		Order("orders.created_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load assigned orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// CreateOrder handles POST /api/v1/orders - creates a new order with a
// generated tracking number, the initial history row and an optional fitting
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	order, err := lifecycle.Create(services.CreateOrderInput{
		ClientID:        req.ClientID,
		TotalCost:       req.TotalCost,
		FittingDate:     req.FittingDate,
		DeadlineDate:    req.DeadlineDate,
		Comment:         req.Comment,
		UseOwnMaterials: req.UseOwnMaterials,
	}, user.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - edits dates and comment and
// recomputes the total cost
func UpdateOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Deadline date is required",
				"details": err.Error(),
			},
		})
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	order, err := lifecycle.Update(orderID, services.UpdateOrderInput{
		DeadlineDate: req.DeadlineDate,
		Comment:      req.Comment,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes an order and all
// owned rows, restoring reserved material stock. Administrators only.
func DeleteOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	restored, err := lifecycle.Delete(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":           orderID,
			"materials_restored": restored,
		},
	})
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status - transitions
// the order and writes the history row in one transaction
func ChangeOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status is required",
				"details": err.Error(),
			},
		})
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	order, err := lifecycle.ChangeStatus(orderID, req.Status, user.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - the order-level
// status audit trail, oldest first
func GetOrderHistory(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var history []models.OrderStatusHistory
	if err := db.Where("order_id = ?", orderID).Order("changed_at, id").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order history",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}

// GetOrderServiceHistory handles GET /api/v1/orders/:id/services/history -
// the audit trail of every service line of the order
func GetOrderServiceHistory(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var history []models.ServiceStatusHistory
	if err := db.
		Joins("JOIN order_services ON order_services.id = service_status_history.order_service_id").
		Where("order_services.order_id = ?", orderID).
		Order("service_status_history.changed_at, service_status_history.id").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load service history",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}
