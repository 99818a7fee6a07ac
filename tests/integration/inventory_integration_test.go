package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/controllers"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/tests/testutil"
)

// InventoryIntegrationTestSuite covers the stock side of the system:
// supplier deliveries feeding the ledger and the catalog rules around
// material lifetimes
type InventoryIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB

	supplier models.Supplier
}

func (suite *InventoryIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("AUTH0_DOMAIN", "test.auth0.com")
	os.Setenv("AUTH0_AUDIENCE", "https://api.test.com")

	testutil.RequireTestEnvironment(suite.T())

	_, err := config.Load()
	suite.NoError(err)
}

func (suite *InventoryIntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Supplier{},
		&models.Material{},
		&models.Order{},
		&models.OrderMaterial{},
		&models.Delivery{},
		&models.DeliveryMaterial{},
	)
	suite.NoError(err)

	config.SetDB(db)

	suite.supplier = models.Supplier{OrgName: "Textile House Ltd"}
	suite.NoError(db.Create(&suite.supplier).Error)

	auth := testutil.MockAuthMiddleware("auth0|storekeeper", models.RoleAdministrator, "mock-token")

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.POST("/materials", auth, controllers.CreateMaterial)
		v1.DELETE("/materials/:id", auth, controllers.DeleteMaterial)
		v1.GET("/materials", auth, controllers.ListMaterials)
		v1.POST("/deliveries", auth, controllers.CreateDelivery)
		v1.DELETE("/deliveries/:id", auth, controllers.DeleteDelivery)
	}
}

func (suite *InventoryIntegrationTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (suite *InventoryIntegrationTestSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	suite.NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// TestDeliveryLifecycle books a delivery in, verifies the stock movement and
// reverses it again
func (suite *InventoryIntegrationTestSuite) TestDeliveryLifecycle() {
	w := suite.postJSON("/api/v1/materials", map[string]interface{}{
		"material_name": "Wool Gabardine",
		"type":          "fabric",
		"unit":          "m",
		"quantity":      5.0,
		"cost_per_unit": 450.0,
	})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	materialID := uint(response["data"].(map[string]interface{})["material_id"].(float64))

	// Delivery tops up the known material and creates a new one
	w = suite.postJSON("/api/v1/deliveries", map[string]interface{}{
		"supplier_id":   suite.supplier.ID,
		"delivery_date": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		"materials": []map[string]interface{}{
			{"material_id": materialID, "quantity": 15.0, "cost_per_unit": 430.0},
			{"material_name": "Horsehair Canvas", "type": "interfacing", "unit": "m", "quantity": 8.0, "cost_per_unit": 120.0},
		},
	})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	deliveryID := uint(response["data"].(map[string]interface{})["delivery_id"].(float64))

	var gabardine, canvas models.Material
	suite.NoError(suite.db.First(&gabardine, materialID).Error)
	suite.Equal(float64(20), gabardine.Quantity)
	suite.NoError(suite.db.Where("material_name = ?", "Horsehair Canvas").First(&canvas).Error)
	suite.Equal(float64(8), canvas.Quantity)

	// Deleting the delivery takes the booked quantities back out
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/deliveries/%d", deliveryID), nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusNoContent, w.Code, w.Body.String())

	suite.NoError(suite.db.First(&gabardine, materialID).Error)
	suite.Equal(float64(5), gabardine.Quantity)
	suite.NoError(suite.db.First(&canvas, canvas.ID).Error)
	suite.Equal(float64(0), canvas.Quantity)
}

// TestMaterialDeletionRules checks that a material cannot disappear while
// orders or deliveries still reference it
func (suite *InventoryIntegrationTestSuite) TestMaterialDeletionRules() {
	material := models.Material{Name: "Reserved Satin", Type: "fabric", Unit: "m", Quantity: 10, CostPerUnit: 300}
	suite.NoError(suite.db.Create(&material).Error)

	client := models.Client{FullName: "Anna Petrova", PhoneNumber: "+7 900 123-45-67"}
	suite.NoError(suite.db.Create(&client).Error)
	order := models.Order{TrackingNumber: "010226-001", ClientID: client.ID, Status: models.StatusNew, TotalCost: 100}
	suite.NoError(suite.db.Create(&order).Error)
	suite.NoError(suite.db.Create(&models.OrderMaterial{OrderID: order.ID, MaterialID: material.ID, Quantity: 2}).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/materials/%d", material.ID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusConflict, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	suite.Equal("MATERIAL_IN_USE", errorData["code"])

	// Once the order lets go of it, deletion goes through
	suite.NoError(suite.db.Delete(&models.OrderMaterial{}, "order_id = ?", order.ID).Error)

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/materials/%d", material.ID), nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusNoContent, w.Code)
}

func TestInventoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(InventoryIntegrationTestSuite))
}
