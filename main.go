package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/atelier-app/atelier-api/config"
	"github.com/atelier-app/atelier-api/controllers"
	"github.com/atelier-app/atelier-api/middleware"
	"github.com/atelier-app/atelier-api/models"
	"github.com/atelier-app/atelier-api/services"
)

func main() {
	log.Println("Starting Atelier API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
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
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Document storage is optional; order document endpoints report
	// STORAGE_UNAVAILABLE when it is not configured
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Printf("Warning: S3 document storage unavailable: %v", err)
		}
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the gin engine with CORS, auth middleware and all
// API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	auth := v1.Group("")
	auth.Use(middleware.EnsureValidToken(cfg))
	adminOnly := middleware.RequireRoles(models.AdminRoles...)
	seniorOnly := middleware.RequireRoles(models.RoleSeniorAdministrator)

	// Users
	auth.POST("/users", controllers.CreateUser)
	auth.GET("/users", seniorOnly, controllers.ListUsers)
	auth.GET("/users/me", controllers.GetMyProfile)
	auth.PUT("/users/me", controllers.UpdateMyProfile)

	// Orders
	auth.GET("/orders", controllers.ListOrders)
	auth.GET("/orders/status-counts", controllers.GetStatusCounts)
	auth.GET("/orders/overdue", controllers.GetOverdueOrders)
	auth.GET("/orders/assigned-to-me", controllers.GetMyAssignedOrders)
	auth.GET("/orders/:id", controllers.GetOrder)
	auth.POST("/orders", controllers.CreateOrder)
	auth.PUT("/orders/:id", controllers.UpdateOrder)
	auth.DELETE("/orders/:id", adminOnly, controllers.DeleteOrder)
	auth.PATCH("/orders/:id/status", controllers.ChangeOrderStatus)
	auth.GET("/orders/:id/history", controllers.GetOrderHistory)

	// Order services
	auth.GET("/orders/:id/services", controllers.ListOrderServices)
	auth.POST("/orders/:id/services", controllers.AttachService)
	auth.DELETE("/orders/:id/services/:serviceId", controllers.DetachService)
	auth.PATCH("/orders/services/:id/status", controllers.ChangeOrderServiceStatus)
	auth.GET("/orders/:id/services/history", controllers.GetOrderServiceHistory)

	// Order materials
	auth.GET("/orders/:id/materials", controllers.ListOrderMaterials)
	auth.POST("/orders/:id/materials", controllers.AttachMaterial)
	auth.PUT("/orders/:id/materials/:materialId", controllers.UpdateOrderMaterial)
	auth.DELETE("/orders/:id/materials/:materialId", adminOnly, controllers.DetachMaterial)

	// Order employees
	auth.GET("/orders/:id/employees", controllers.ListOrderEmployees)
	auth.POST("/orders/:id/assign-employee", adminOnly, controllers.AssignEmployee)
	auth.DELETE("/orders/:id/employees/:employeeId", adminOnly, controllers.UnassignEmployee)

	// Fittings
	auth.GET("/orders/:id/fittings", controllers.ListFittings)
	auth.POST("/orders/:id/fittings", controllers.AddFitting)
	auth.PUT("/fittings/:id", controllers.UpdateFitting)
	auth.DELETE("/fittings/:id", controllers.DeleteFitting)

	// Documents
	auth.POST("/orders/:id/documents", controllers.UploadOrderDocument)
	auth.GET("/orders/:id/documents", controllers.ListOrderDocuments)
	auth.GET("/documents/:id/url", controllers.GetDocumentURL)
	auth.DELETE("/documents/:id", adminOnly, controllers.DeleteOrderDocument)

	// Materials
	auth.GET("/materials", controllers.ListMaterials)
	auth.GET("/materials/check-name", controllers.CheckMaterialName)
	auth.GET("/materials/:id", controllers.GetMaterial)
	auth.POST("/materials", adminOnly, controllers.CreateMaterial)
	auth.PUT("/materials/:id", adminOnly, controllers.UpdateMaterial)
	auth.DELETE("/materials/:id", adminOnly, controllers.DeleteMaterial)

	// Deliveries
	auth.GET("/deliveries", controllers.ListDeliveries)
	auth.GET("/deliveries/:id", controllers.GetDelivery)
	auth.POST("/deliveries", adminOnly, controllers.CreateDelivery)
	auth.DELETE("/deliveries/:id", adminOnly, controllers.DeleteDelivery)

	// Reference data
	auth.GET("/clients", controllers.ListClients)
	auth.GET("/clients/:id", controllers.GetClient)
	auth.POST("/clients", controllers.CreateClient)
	auth.PUT("/clients/:id", controllers.UpdateClient)
	auth.GET("/services", controllers.ListServices)
	auth.POST("/services", adminOnly, controllers.CreateService)
	auth.GET("/suppliers", controllers.ListSuppliers)
	auth.POST("/suppliers", adminOnly, controllers.CreateSupplier)
	auth.GET("/employees", controllers.ListEmployees)
	auth.GET("/employees/workload", controllers.ListEmployeeWorkloads)
	auth.GET("/employees/:id/workload", controllers.GetEmployeeWorkload)
	auth.POST("/employees", seniorOnly, controllers.CreateEmployee)

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Atelier API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
