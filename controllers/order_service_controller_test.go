package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/models"
)

func createTestService(t *testing.T, db *gorm.DB, name string, baseCost float64) *models.Service {
	t.Helper()
	service := models.Service{Name: name, BaseCost: baseCost}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return &service
}

func TestAttachServiceEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createTestUser(t, db, "auth0|svc", "Service Clerk", models.RoleEmployee)
	client := createTestClient(t, db)
	order := createTestOrder(t, db, client.ID, "160126-001", models.StatusNew)
	service := createTestService(t, db, "Dress sewing", 2500)

	router := setupTestRouter()
	router.POST("/orders/:id/services", mockAuthMiddleware(user.Auth0ID, user.Role, "token-svc"), AttachService)

	t.Run("Attach and recompute total", func(t *testing.T) {
		body := map[string]interface{}{"service_id": service.ID, "quantity": 2}
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/services", order.ID), jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, models.ServiceStatusNew, data["status"])

		// Order total reflects quantity times base cost
		var reloaded models.Order
		assert.NoError(t, db.First(&reloaded, order.ID).Error)
		assert.Equal(t, float64(5000), reloaded.TotalCost)

		// The line starts its own audit trail
		var historyCount int64
		db.Model(&models.ServiceStatusHistory{}).Count(&historyCount)
		assert.Equal(t, int64(1), historyCount)
	})

	t.Run("Reject unknown service", func(t *testing.T) {
		body := map[string]interface{}{"service_id": 9999, "quantity": 1}
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/services", order.ID), jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Reject non-positive quantity", func(t *testing.T) {
		body := map[string]interface{}{"service_id": service.ID, "quantity": 0}
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/services", order.ID), jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChangeOrderServiceStatusEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createTestUser(t, db, "auth0|svcstatus", "Workflow Clerk", models.RoleEmployee)
	client := createTestClient(t, db)
	order := createTestOrder(t, db, client.ID, "170126-001", models.StatusInProgress)
	service := createTestService(t, db, "Suit alteration", 1200)

	line := models.OrderService{OrderID: order.ID, ServiceID: service.ID, Quantity: 1, Status: models.ServiceStatusNew}
	assert.NoError(t, db.Create(&line).Error)

	router := setupTestRouter()
	router.PATCH("/orders/services/:id/status", mockAuthMiddleware(user.Auth0ID, user.Role, "token-svcstatus"), ChangeOrderServiceStatus)

	tests := []struct {
		name           string
		status         string
		expectedStatus int
		expectedCode   string
	}{
		{"Move to sketch", models.ServiceStatusSketch, http.StatusOK, ""},
		{"Move to cutting", models.ServiceStatusCutting, http.StatusOK, ""},
		{"Send back to rework", models.ServiceStatusRework, http.StatusOK, ""},
		{"Reject unknown status", "polishing", http.StatusBadRequest, "INVALID_STATUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{"status": tt.status}
			req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/services/%d/status", line.ID), jsonBody(t, body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			if tt.expectedCode != "" {
				var response map[string]interface{}
				json.Unmarshal(w.Body.Bytes(), &response)
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
				return
			}

			var reloaded models.OrderService
			assert.NoError(t, db.First(&reloaded, line.ID).Error)
			assert.Equal(t, tt.status, reloaded.Status)

			var history models.ServiceStatusHistory
			assert.NoError(t, db.Where("order_service_id = ?", line.ID).Order("id DESC").First(&history).Error)
			assert.Equal(t, tt.status, history.NewStatus)
		})
	}
}

func TestDetachServiceEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	client := createTestClient(t, db)
	order := createTestOrder(t, db, client.ID, "180126-001", models.StatusNew)
	service := createTestService(t, db, "Hemming", 400)

	line := models.OrderService{OrderID: order.ID, ServiceID: service.ID, Quantity: 3, Status: models.ServiceStatusNew}
	assert.NoError(t, db.Create(&line).Error)
	assert.NoError(t, db.Create(&models.ServiceStatusHistory{OrderServiceID: line.ID, NewStatus: models.ServiceStatusNew, ChangedBy: 1}).Error)

	router := setupTestRouter()
	router.DELETE("/orders/:id/services/:serviceId", DetachService)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/orders/%d/services/%d", order.ID, line.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code, "Response body: %s", w.Body.String())

	var lineCount, historyCount int64
	db.Model(&models.OrderService{}).Count(&lineCount)
	db.Model(&models.ServiceStatusHistory{}).Count(&historyCount)
	assert.Equal(t, int64(0), lineCount)
	assert.Equal(t, int64(0), historyCount)

	// Detaching the only service zeroes the order total
	var reloaded models.Order
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, float64(0), reloaded.TotalCost)
}

func TestGetOrderServiceHistoryEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	client := createTestClient(t, db)
	order := createTestOrder(t, db, client.ID, "190126-001", models.StatusInProgress)
	service := createTestService(t, db, "Embroidery", 800)

	line := models.OrderService{OrderID: order.ID, ServiceID: service.ID, Quantity: 1, Status: models.ServiceStatusSewing}
	assert.NoError(t, db.Create(&line).Error)
	assert.NoError(t, db.Create(&models.ServiceStatusHistory{OrderServiceID: line.ID, NewStatus: models.ServiceStatusNew, ChangedBy: 1}).Error)
	assert.NoError(t, db.Create(&models.ServiceStatusHistory{OrderServiceID: line.ID, NewStatus: models.ServiceStatusSewing, ChangedBy: 1}).Error)

	router := setupTestRouter()
	router.GET("/orders/:id/services/history", GetOrderServiceHistory)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d/services/history", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, models.ServiceStatusNew, first["new_status"])
}
