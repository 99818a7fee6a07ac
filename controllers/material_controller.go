package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

// CreateMaterialRequest represents the request body for registering a
// catalog material
type CreateMaterialRequest struct {
	MaterialName string  `json:"material_name" binding:"required"`
	Type         string  `json:"type"`
	Unit         string  `json:"unit" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	CostPerUnit  float64 `json:"cost_per_unit" binding:"gte=0"`
}

// UpdateMaterialRequest represents the request body for editing catalog
// attributes. Stock quantity is never edited here - it only moves through
// deliveries and order reservations.
type UpdateMaterialRequest struct {
	MaterialName string  `json:"material_name" binding:"required"`
	Type         string  `json:"type"`
	Unit         string  `json:"unit" binding:"required"`
	CostPerUnit  float64 `json:"cost_per_unit" binding:"gte=0"`
}

// ListMaterials handles GET /api/v1/materials with optional name search
func ListMaterials(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Material{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(material_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var materials []models.Material
	if err := query.Order("material_name").Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load materials",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
	})
}

// GetMaterial handles GET /api/v1/materials/:id
func GetMaterial(c *gin.Context) {
	materialID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var material models.Material
	if err := db.First(&material, materialID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "material", ID: materialID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// CheckMaterialName handles GET /api/v1/materials/check-name?name= - used by
// intake forms to warn about duplicates before submitting
func CheckMaterialName(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "name query parameter is required",
			},
		})
		return
	}

	catalog := services.NewMaterialCatalog()
	exists, err := catalog.NameExists(config.GetDB(), name)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"name":   name,
			"exists": exists,
		},
	})
}

// CreateMaterial handles POST /api/v1/materials. Administrators only.
func CreateMaterial(c *gin.Context) {
	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "material_name and unit are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	catalog := services.NewMaterialCatalog()

	exists, err := catalog.NameExists(db, req.MaterialName)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if exists {
		respondDomainError(c, &services.DuplicateMaterialError{Name: req.MaterialName})
		return
	}

	material := models.Material{
		Name:        strings.TrimSpace(req.MaterialName),
		Type:        req.Type,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		CostPerUnit: req.CostPerUnit,
	}
	if err := db.Create(&material).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create material",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    material,
	})
}

// UpdateMaterial handles PUT /api/v1/materials/:id. Administrators only.
func UpdateMaterial(c *gin.Context) {
	materialID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "material_name and unit are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var material models.Material
	if err := db.First(&material, materialID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "material", ID: materialID})
		return
	}

	newName := strings.TrimSpace(req.MaterialName)
	if !strings.EqualFold(newName, material.Name) {
		catalog := services.NewMaterialCatalog()
		exists, err := catalog.NameExists(db, newName)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if exists {
			respondDomainError(c, &services.DuplicateMaterialError{Name: newName})
			return
		}
	}

	updates := map[string]interface{}{
		"material_name": newName,
		"type":          req.Type,
		"unit":          req.Unit,
		"cost_per_unit": req.CostPerUnit,
	}
	if err := db.Model(&material).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update material",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// DeleteMaterial handles DELETE /api/v1/materials/:id - refused while any
// delivery or order still references the material. Administrators only.
func DeleteMaterial(c *gin.Context) {
	materialID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	catalog := services.NewMaterialCatalog()

	if err := catalog.EnsureDeletable(db, materialID); err != nil {
		respondDomainError(c, err)
		return
	}

	result := db.Delete(&models.Material{}, materialID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete material",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		respondDomainError(c, &services.NotFoundError{Resource: "material", ID: materialID})
		return
	}

	c.Status(http.StatusNoContent)
}
