package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// ClientRequest represents the request body for creating or updating a client
type ClientRequest struct {
	FullName    string `json:"fullname" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// ListClients handles GET /api/v1/clients with optional name/phone search
func ListClients(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Client{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR phone_number LIKE ?", pattern, "%"+search+"%")
	}

	var clients []models.Client
	if err := query.Order("full_name").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load clients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
	})
}

// GetClient handles GET /api/v1/clients/:id
func GetClient(c *gin.Context) {
	clientID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "client", ID: clientID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// CreateClient handles POST /api/v1/clients
func CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "fullname and phone_number are required",
				"details": err.Error(),
			},
		})
		return
	}

	client := models.Client{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}

	db := config.GetDB()
	if err := db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create client",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    client,
	})
}

// UpdateClient handles PUT /api/v1/clients/:id
func UpdateClient(c *gin.Context) {
	clientID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "fullname and phone_number are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "client", ID: clientID})
		return
	}

	updates := map[string]interface{}{
		"full_name":    req.FullName,
		"phone_number": req.PhoneNumber,
		"email":        req.Email,
	}
	if err := db.Model(&client).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update client",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}
