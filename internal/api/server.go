package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"printpod/internal/api/handlers"
	"printpod/internal/api/middleware"
	"printpod/internal/config"
	"printpod/internal/database"
	"printpod/internal/events"
	"printpod/internal/logger"
	"printpod/internal/orders"
	"printpod/internal/printcom"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Core services
	client := printcom.NewClient(cfg, logger)
	store := orders.NewStore(db.DB, logger)
	lookup := orders.NewLookupIndex(store, logger)
	engine := orders.NewEngine(store, client, cfg, logger, publisher)
	webhooks := orders.NewWebhookProcessor(store, lookup, logger, publisher)

	// Handlers
	printcomHandler := handlers.NewPrintcomHandler(client, logger)
	orderHandler := handlers.NewOrderHandler(store, engine, webhooks, cfg, logger)

	// Routes
	v1 := router.Group("/pdc/v1")
	{
		// Print.com catalog
		v1.GET("/products", printcomHandler.ListProducts)
		v1.GET("/presets", printcomHandler.ListPresets)
		v1.GET("/verify", printcomHandler.Verify)

		// Product print defaults
		v1.PUT("/products/:id/print-config", orderHandler.SetProductPrintConfig)

		// Orders
		ordersGroup := v1.Group("/orders")
		{
			ordersGroup.POST("", orderHandler.Create)
			ordersGroup.GET("/:id", orderHandler.Get)
			ordersGroup.POST("/items/:id/attach-pdf", orderHandler.AttachPDF)
			ordersGroup.POST("/items/:id/purchase", orderHandler.Purchase)

			// Public webhook endpoint called by Print.com; deliberately
			// unauthenticated.
			ordersGroup.POST("/webhook", orderHandler.Webhook)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
