// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/config"
	"github.com/procurex/orders-backend/internal/handlers"
	"github.com/procurex/orders-backend/internal/middleware"
	"github.com/procurex/orders-backend/internal/services"
	"github.com/procurex/orders-backend/internal/tasks"
	"github.com/procurex/orders-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, queue *tasks.Queue) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	priceListService := services.NewPriceListService(db, storageService)

	authService := services.NewAuthService(db, cfg, queue, notificationService)
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, queue, notificationService)
	contactService := services.NewContactService(db)
	partnerService := services.NewPartnerService(db, queue, priceListService)
	adminService := services.NewAdminService(db, orderService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	contactHandler := handlers.NewContactHandler(contactService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.GET("/confirm", authHandler.ConfirmRegistration)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/password-reset", authHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Catalog routes (public)
		v1.GET("/categories", catalogHandler.ListCategories)
		v1.GET("/shops", catalogHandler.ListShops)

		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), catalogHandler.ListListings)
			products.GET("/:id", middleware.OptionalAuth(), catalogHandler.GetListing)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItems)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.PlaceOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
		}

		// Contact routes
		contacts := v1.Group("/contacts")
		contacts.Use(middleware.AuthRequired())
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}

		// Partner routes (sellers)
		partner := v1.Group("/partner")
		partner.Use(middleware.AuthRequired())
		{
			partner.GET("/state", partnerHandler.GetState)
			partner.POST("/state", partnerHandler.SetState)
			partner.POST("/pricelist", middleware.ImportRateLimit(), partnerHandler.ImportPriceList)
			partner.POST("/pricelist/export", middleware.ImportRateLimit(), partnerHandler.ExportPriceList)
			partner.GET("/orders", partnerHandler.ListShopOrders)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.StaffRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/active", adminHandler.SetUserActive)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", adminHandler.CreateCategory)
				adminCategories.DELETE("/:id", adminHandler.DeleteCategory)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", adminHandler.CreateProduct)
				adminProducts.DELETE("/:id", adminHandler.DeleteProduct)
			}

			adminListings := admin.Group("/listings")
			{
				adminListings.GET("", adminHandler.GetListings)
				adminListings.PUT("/:id", adminHandler.UpdateListing)
				adminListings.DELETE("/:id", adminHandler.DeleteListing)
			}

			adminShops := admin.Group("/shops")
			{
				adminShops.GET("", adminHandler.GetShops)
				adminShops.PUT("/:id/state", adminHandler.SetShopState)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", adminHandler.GetOrders)
				adminOrders.PUT("/:id/status", adminHandler.SetOrderStatus)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
