package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// CreateServiceRequest represents the request body for adding a catalog service
type CreateServiceRequest struct {
	Name     string  `json:"name" binding:"required"`
	BaseCost float64 `json:"base_cost" binding:"required,gt=0"`
}

// CreateSupplierRequest represents the request body for adding a supplier
type CreateSupplierRequest struct {
	OrgName     string `json:"org_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// CreateEmployeeRequest represents the request body for registering an
// employee record for an existing user account
type CreateEmployeeRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	Position string `json:"position" binding:"required"`
}

// ListServices handles GET /api/v1/services - the tailoring service catalog
func ListServices(c *gin.Context) {
	db := config.GetDB()
	var catalogServices []models.Service
	if err := db.Order("name").Find(&catalogServices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalogServices,
	})
}

// CreateService handles POST /api/v1/services. Administrators only.
func CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "name and a positive base_cost are required",
				"details": err.Error(),
			},
		})
		return
	}

	catalogService := models.Service{
		Name:     req.Name,
		BaseCost: req.BaseCost,
	}

	db := config.GetDB()
	if err := db.Create(&catalogService).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    catalogService,
	})
}

// ListSuppliers handles GET /api/v1/suppliers
func ListSuppliers(c *gin.Context) {
	db := config.GetDB()
	var suppliers []models.Supplier
	if err := db.Order("org_name").Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load suppliers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    suppliers,
	})
}

// CreateSupplier handles POST /api/v1/suppliers. Administrators only.
func CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "org_name is required",
				"details": err.Error(),
			},
		})
		return
	}

	supplier := models.Supplier{
		OrgName:     req.OrgName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}

	db := config.GetDB()
	if err := db.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create supplier",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    supplier,
	})
}

// ListEmployees handles GET /api/v1/employees
func ListEmployees(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employees,
	})
}

// CreateEmployee handles POST /api/v1/employees. Senior administrators only.
func CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "user_id and position are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "user", ID: req.UserID})
		return
	}

	employee := models.Employee{
		UserID:   req.UserID,
		Position: req.Position,
	}
	if err := db.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create employee",
			},
		})
		return
	}

	employee.User = user
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    employee,
	})
}
