package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/config"
	"github.com/yourusername/biztrack/handlers"
	"github.com/yourusername/biztrack/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Logging
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	router := setupRouter(db, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Starting biztrack API server")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func setupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "biztrack-api",
		})
	})

	authHandler := handlers.NewAuthHandler(db, cfg)
	customerHandler := handlers.NewCustomerHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	quotationHandler := handlers.NewQuotationHandler(db, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)
	deliveryNoteHandler := handlers.NewDeliveryNoteHandler(db, cfg)

	api := router.Group("/api/v1")

	// Public auth endpoints
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Everything else requires a bearer token
	protected := api.Group("")
	protected.Use(middleware.JwtAuthMiddleware(cfg))
	admin := middleware.RequireRole("admin")
	{
		protected.POST("/customers", customerHandler.CreateCustomer)
		protected.GET("/customers", customerHandler.ListCustomers)
		protected.GET("/customers/:id", customerHandler.GetCustomer)
		protected.PUT("/customers/:id", customerHandler.UpdateCustomer)
		protected.DELETE("/customers/:id", admin, customerHandler.DeleteCustomer)

		protected.POST("/products", catalogHandler.CreateProduct)
		protected.GET("/products", catalogHandler.ListProducts)
		protected.GET("/products/:id", catalogHandler.GetProduct)
		protected.PUT("/products/:id", catalogHandler.UpdateProduct)
		protected.DELETE("/products/:id", admin, catalogHandler.DeleteProduct)

		protected.POST("/services", catalogHandler.CreateService)
		protected.GET("/services", catalogHandler.ListServices)
		protected.GET("/services/:id", catalogHandler.GetService)
		protected.PUT("/services/:id", catalogHandler.UpdateService)
		protected.DELETE("/services/:id", admin, catalogHandler.DeleteService)

		protected.POST("/quotations", quotationHandler.CreateQuotation)
		protected.GET("/quotations", quotationHandler.ListQuotations)
		protected.GET("/quotations/:id", quotationHandler.GetQuotation)
		protected.PUT("/quotations/:id/line-items", quotationHandler.UpdateQuotationItems)
		protected.POST("/quotations/:id/status", quotationHandler.UpdateQuotationStatus)
		protected.POST("/quotations/:id/convert-to-invoice", quotationHandler.ConvertToInvoice)
		protected.DELETE("/quotations/:id", admin, quotationHandler.DeleteQuotation)

		protected.POST("/invoices", invoiceHandler.CreateInvoice)
		protected.GET("/invoices", invoiceHandler.ListInvoices)
		protected.GET("/invoices/:id", invoiceHandler.GetInvoice)
		protected.PUT("/invoices/:id/line-items", invoiceHandler.UpdateInvoiceItems)
		protected.POST("/invoices/:id/status", invoiceHandler.UpdateInvoiceStatus)
		protected.POST("/invoices/:id/delivery-note", invoiceHandler.CreateDeliveryNote)
		protected.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)
		protected.DELETE("/invoices/:id", admin, invoiceHandler.DeleteInvoice)

		protected.GET("/delivery-notes", deliveryNoteHandler.ListDeliveryNotes)
		protected.GET("/delivery-notes/:id", deliveryNoteHandler.GetDeliveryNote)
		protected.POST("/delivery-notes/:id/status", deliveryNoteHandler.UpdateDeliveryNoteStatus)
	}

	return router
}
