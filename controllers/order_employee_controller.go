package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// AssignEmployeeRequest represents the request body for assigning an employee
// to an order
type AssignEmployeeRequest struct {
	EmployeeID uint `json:"employee_id" binding:"required"`
}

// ListOrderEmployees handles GET /api/v1/orders/:id/employees
func ListOrderEmployees(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var assignments []models.OrderEmployee
	if err := db.Preload("Employee.User").Where("order_id = ?", orderID).Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order assignments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    assignments,
	})
}

// AssignEmployee handles POST /api/v1/orders/:id/employees - enforces the
// active-order workload limit before creating the assignment. Administrators
// only.
func AssignEmployee(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AssignEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "employee_id is required",
				"details": err.Error(),
			},
		})
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	assignment, err := lifecycle.AssignEmployee(orderID, req.EmployeeID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    assignment,
	})
}

// UnassignEmployee handles DELETE /api/v1/orders/:id/employees/:employeeId.
// Administrators only.
func UnassignEmployee(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	employeeID, ok := uintParam(c, "employeeId")
	if !ok {
		return
	}

	lifecycle := services.NewOrderLifecycle(config.GetDB())
	if err := lifecycle.UnassignEmployee(orderID, employeeID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetEmployeeWorkload handles GET /api/v1/employees/:id/workload - reports
// how many active orders an employee carries against the limit
func GetEmployeeWorkload(c *gin.Context) {
	employeeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	guard := services.NewWorkloadGuard()
	active, err := guard.ActiveOrders(config.GetDB(), employeeID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"employee_id":   employeeID,
			"active_orders": active,
			"limit":         services.MaxActiveOrders,
			"available":     active < services.MaxActiveOrders,
		},
	})
}

// ListEmployeeWorkloads handles GET /api/v1/employees/workload - every
// employee with their active order count, used when picking who to assign
func ListEmployeeWorkloads(c *gin.Context) {
	db := config.GetDB()
	var employees []models.Employee
	if err := db.Preload("User").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load employees",
			},
		})
		return
	}

	guard := services.NewWorkloadGuard()
	workloads := make([]gin.H, 0, len(employees))
	for _, employee := range employees {
		active, err := guard.ActiveOrders(db, employee.ID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		workloads = append(workloads, gin.H{
			"employee":      employee,
			"active_orders": active,
			"limit":         services.MaxActiveOrders,
			"available":     active < services.MaxActiveOrders,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    workloads,
	})
}
