package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/controllers"
	"github.com/atelier-app/atelier-api/middleware"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/tests/testutil"
)

// OrderAcceptanceTestSuite drives the API over real HTTP: an employee takes
// an order, an administrator manages assignments and deletions, and role
// checks keep them apart
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB

	employee models.User
	admin    models.User
	client   models.Client
	tailor   models.Employee
}

func (suite *OrderAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("AUTH0_DOMAIN", "test.auth0.com")
	os.Setenv("AUTH0_AUDIENCE", "https://api.test.com")

	testutil.RequireTestEnvironment(suite.T())

	_, err := config.Load()
	suite.NoError(err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Employee{},
		&models.Service{},
		&models.Material{},
		&models.Order{},
		&models.OrderService{},
		&models.OrderMaterial{},
		&models.OrderEmployee{},
		&models.Fitting{},
		&models.OrderStatusHistory{},
		&models.ServiceStatusHistory{},
		&models.OrderDocument{},
	)
	suite.NoError(err)

	config.SetDB(db)

	suite.server = httptest.NewServer(suite.createRouter())
}

func (suite *OrderAcceptanceTestSuite) TearDownSuite() {
	suite.server.Close()
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}

func (suite *OrderAcceptanceTestSuite) SetupTest() {
	for _, table := range []string{
		"order_status_history",
		"order_employees",
		"order_materials",
		"order_services",
		"fittings",
		"orders",
		"employees",
		"clients",
		"users",
	} {
		suite.db.Exec("DELETE FROM " + table)
	}

	suite.employee = models.User{
		Auth0ID:  "auth0|employee",
		FullName: "Vera Tailor",
		Email:    "vera@atelier.test",
		Role:     models.RoleEmployee,
	}
	suite.NoError(suite.db.Create(&suite.employee).Error)

	suite.admin = models.User{
		Auth0ID:  "auth0|admin",
		FullName: "Olga Admin",
		Email:    "olga@atelier.test",
		Role:     models.RoleAdministrator,
	}
	suite.NoError(suite.db.Create(&suite.admin).Error)

	suite.tailor = models.Employee{UserID: suite.employee.ID, Position: "tailor"}
	suite.NoError(suite.db.Create(&suite.tailor).Error)

	suite.client = models.Client{FullName: "Anna Petrova", PhoneNumber: "+7 900 123-45-67"}
	suite.NoError(suite.db.Create(&suite.client).Error)
}

// createRouter builds the application routes with mock auth, one set per role
func (suite *OrderAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	employeeAuth := testutil.MockAuthMiddleware("auth0|employee", models.RoleEmployee, "employee-token")
	adminAuth := testutil.MockAuthMiddleware("auth0|admin", models.RoleAdministrator, "admin-token")
	adminOnly := middleware.RequireRoles(models.AdminRoles...)

	v1 := router.Group("/api/v1")
	{
		// Employee routes
		v1.POST("/orders", employeeAuth, controllers.CreateOrder)
		v1.GET("/orders/:id", employeeAuth, controllers.GetOrder)
		v1.GET("/orders/assigned-to-me", employeeAuth, controllers.GetMyAssignedOrders)
		v1.DELETE("/orders/:id", employeeAuth, adminOnly, controllers.DeleteOrder)
		v1.POST("/orders/:id/assign-employee", employeeAuth, adminOnly, controllers.AssignEmployee)

		// The same admin-gated routes reached with an administrator token
		admin := router.Group("/api/v1/admin")
		admin.DELETE("/orders/:id", adminAuth, adminOnly, controllers.DeleteOrder)
		admin.POST("/orders/:id/assign-employee", adminAuth, adminOnly, controllers.AssignEmployee)
	}

	return router
}

func (suite *OrderAcceptanceTestSuite) request(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	suite.NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	suite.NoError(err)
	resp.Body.Close()
	if len(raw) > 0 {
		suite.NoError(json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// TestScenario_WalkInClient covers the front-desk flow: an employee takes an
// order, the administrator assigns a tailor and the employee sees it in
// their queue
func (suite *OrderAcceptanceTestSuite) TestScenario_WalkInClient() {
	resp, body := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"client_id":  suite.client.ID,
		"total_cost": 3200.0,
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	orderID := uint(data["order_id"].(float64))
	suite.Regexp(`^\d{6}-\d{3}$`, data["tracking_number"])

	// Administrator assigns the tailor
	resp, body = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/admin/orders/%d/assign-employee", orderID), map[string]interface{}{
		"employee_id": suite.tailor.ID,
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	// Accept the order so it counts as active work
	suite.NoError(suite.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", models.StatusAccepted).Error)

	resp, body = suite.request(http.MethodGet, "/api/v1/orders/assigned-to-me", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	assigned := body["data"].([]interface{})
	suite.Len(assigned, 1)
}

// TestScenario_EmployeeCannotAdminister verifies the role gate on
// administrative operations
func (suite *OrderAcceptanceTestSuite) TestScenario_EmployeeCannotAdminister() {
	order := models.Order{TrackingNumber: "250126-001", ClientID: suite.client.ID, Status: models.StatusNew, TotalCost: 100}
	suite.NoError(suite.db.Create(&order).Error)

	resp, body := suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	suite.Equal(http.StatusForbidden, resp.StatusCode)
	errorData := body["error"].(map[string]interface{})
	suite.Equal("FORBIDDEN", errorData["code"])

	resp, body = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/assign-employee", order.ID), map[string]interface{}{
		"employee_id": suite.tailor.ID,
	})
	suite.Equal(http.StatusForbidden, resp.StatusCode)

	// The order survives untouched
	var count int64
	suite.db.Model(&models.Order{}).Count(&count)
	suite.Equal(int64(1), count)

	// The administrator can delete it
	resp, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/admin/orders/%d", order.ID), nil)
	suite.Equal(http.StatusOK, resp.StatusCode)

	suite.db.Model(&models.Order{}).Count(&count)
	suite.Equal(int64(0), count)
}

func TestOrderAcceptanceSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
