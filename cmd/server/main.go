package main

import (
	"log"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/handlers"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	dealRepo := repository.NewDealRepository(db)
	requestRepo := repository.NewRequestToDriverRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	dealService := services.NewDealService(dealRepo, requestRepo, deliveryRepo, userRepo, productRepo)
	requestService := services.NewRequestToDriverService(requestRepo, dealRepo)
	deliveryService := services.NewDeliveryService(deliveryRepo, userRepo, redisClient)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	dealHandler := handlers.NewDealHandler(dealService)
	requestHandler := handlers.NewRequestToDriverHandler(requestService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)

	// Setup routes
	router := gin.Default()

	router.POST("/api/users/register", userHandler.Register)

	api := router.Group("/api")
	api.Use(handlers.IdentityMiddleware(userService))
	{
		api.GET("/users/me", userHandler.GetMe)
		api.PUT("/users/me/availability", userHandler.SetAvailability)

		api.POST("/products", productHandler.CreateProduct)
		api.GET("/products", productHandler.GetMyProducts)

		api.POST("/deals", dealHandler.CreateDeal)
		api.GET("/deals", dealHandler.GetDeals)
		api.GET("/deals/:id", dealHandler.GetDeal)
		api.PUT("/deals/:id", dealHandler.UpdateDeal)
		api.POST("/deals/:id/approve", dealHandler.ApproveDeal)
		api.PUT("/deals/:id/status", dealHandler.UpdateDealStatus)
		api.POST("/deals/:id/assign-driver", dealHandler.AssignDriver)
		api.POST("/deals/:id/request-driver", dealHandler.RequestDriver)
		api.POST("/deals/:id/complete", dealHandler.CompleteDeal)
		api.GET("/deals/:id/fee-split", dealHandler.GetFeeSplit)
		api.POST("/deals/:id/items", dealHandler.AddItem)
		api.PUT("/deal-items/:item_id", dealHandler.UpdateItem)
		api.DELETE("/deal-items/:item_id", dealHandler.RemoveItem)

		api.GET("/driver-requests", requestHandler.GetRequests)
		api.GET("/driver-requests/:id", requestHandler.GetRequest)
		api.POST("/driver-requests/:id/propose-price", requestHandler.ProposePrice)
		api.POST("/driver-requests/:id/approve", requestHandler.ApproveRequest)
		api.POST("/driver-requests/:id/reject", requestHandler.RejectRequest)

		api.GET("/deliveries", deliveryHandler.GetDeliveries)
		api.GET("/available-deliveries", deliveryHandler.GetAvailableDeliveries)
		api.GET("/deliveries/:id", deliveryHandler.GetDelivery)
		api.PUT("/deliveries/:id/status", deliveryHandler.UpdateDeliveryStatus)
		api.POST("/deliveries/:id/assign-driver", deliveryHandler.AssignDriver)
		api.POST("/deliveries/:id/manual-driver", deliveryHandler.SetManualDriver)
		api.POST("/deliveries/:id/accept", deliveryHandler.AcceptDelivery)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
