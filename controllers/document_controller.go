package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
	"github.com/atelier-app/atelier-api/utils"
)

// UploadOrderDocument handles POST /api/v1/orders/:id/documents - validates
// the file, stores it in S3 and records the attachment
func UploadOrderDocument(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "order", ID: orderID})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A file is required in the 'file' form field",
			},
		})
		return
	}

	if err := utils.ValidateDocumentFile(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": err.Error(),
			},
		})
		return
	}

	store := services.GetDocumentStore()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Document storage is not configured",
			},
		})
		return
	}

	s3Key, err := store.UploadDocument(orderID, fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload document",
			},
		})
		return
	}

	document := models.OrderDocument{
		OrderID:    orderID,
		FileName:   fileHeader.Filename,
		S3Key:      s3Key,
		UploadedBy: user.ID,
	}
	if err := db.Create(&document).Error; err != nil {
		// best effort cleanup of the orphaned object
		_ = store.DeleteDocument(s3Key)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record document",
			},
		})
		return
	}

	if url, err := store.GetPresignedURL(s3Key); err == nil {
		document.URL = url
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    document,
	})
}

// ListOrderDocuments handles GET /api/v1/orders/:id/documents - each entry
// carries a fresh presigned URL
func ListOrderDocuments(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var documents []models.OrderDocument
	if err := db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load documents",
			},
		})
		return
	}

	if store := services.GetDocumentStore(); store != nil {
		for i := range documents {
			if url, err := store.GetPresignedURL(documents[i].S3Key); err == nil {
				documents[i].URL = url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    documents,
	})
}

// GetDocumentURL handles GET /api/v1/documents/:id/url - returns a fresh
// presigned download link
func GetDocumentURL(c *gin.Context) {
	documentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var document models.OrderDocument
	if err := db.First(&document, documentID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "document", ID: documentID})
		return
	}

	store := services.GetDocumentStore()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Document storage is not configured",
			},
		})
		return
	}

	url, err := store.GetPresignedURL(document.S3Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "URL_FAILED",
				"message": "Failed to generate download URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"document_id": document.ID,
			"file_name":   document.FileName,
			"url":         url,
		},
	})
}

// DeleteOrderDocument handles DELETE /api/v1/documents/:id. Administrators
// only.
func DeleteOrderDocument(c *gin.Context) {
	documentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var document models.OrderDocument
	if err := db.First(&document, documentID).Error; err != nil {
		respondDomainError(c, &services.NotFoundError{Resource: "document", ID: documentID})
		return
	}

	if store := services.GetDocumentStore(); store != nil {
		if err := store.DeleteDocument(document.S3Key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DELETE_FAILED",
					"message": "Failed to delete stored document",
				},
			})
			return
		}
	}

	if err := db.Delete(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete document record",
			},
		})
		return
	}

	c.Status(http.StatusNoContent)
}
