package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// newTestDB opens an in-memory sqlite database with the full schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Employee{},
		&models.Supplier{},
		&models.Service{},
		&models.Material{},
		&models.Order{},
		&models.OrderService{},
		&models.OrderMaterial{},
		&models.OrderEmployee{},
		&models.Fitting{},
		&models.OrderStatusHistory{},
		&models.ServiceStatusHistory{},
		&models.Delivery{},
		&models.DeliveryMaterial{},
		&models.OrderDocument{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedClient(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	client := models.Client{
		FullName:    "Anna Petrova",
		PhoneNumber: "+15550100",
		Email:       "anna@example.com",
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to seed client: %v", err)
	}
	return client
}

func seedMaterial(t *testing.T, db *gorm.DB, name string, quantity, costPerUnit float64) models.Material {
	t.Helper()
	material := models.Material{
		Name:        name,
		Type:        "fabric",
		Unit:        "m",
		Quantity:    quantity,
		CostPerUnit: costPerUnit,
	}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("Failed to seed material: %v", err)
	}
	return material
}

func seedEmployee(t *testing.T, db *gorm.DB, name string) models.Employee {
	t.Helper()
	user := models.User{
		Auth0ID:  "auth0|" + name,
		FullName: name,
		Email:    name + "@example.com",
		Role:     models.RoleEmployee,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	employee := models.Employee{UserID: user.ID, Position: "tailor"}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
	return employee
}

func seedCatalogService(t *testing.T, db *gorm.DB, name string, baseCost float64) models.Service {
	t.Helper()
	service := models.Service{Name: name, BaseCost: baseCost}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to seed service: %v", err)
	}
	return service
}

func seedSupplier(t *testing.T, db *gorm.DB) models.Supplier {
	t.Helper()
	supplier := models.Supplier{
		OrgName:     "Textile House",
		PhoneNumber: "+15550199",
		Email:       "sales@textilehouse.example.com",
	}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return supplier
}

// seedOrder inserts an order directly, bypassing the lifecycle, for tests
// that need a specific starting state
func seedOrder(t *testing.T, db *gorm.DB, clientID uint, trackingNumber, status string) models.Order {
	t.Helper()
	order := models.Order{
		TrackingNumber: trackingNumber,
		ClientID:       clientID,
		Status:         status,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}
