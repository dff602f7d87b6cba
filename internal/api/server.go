// Package api serves the order monitor and inventory ledger over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/handlers"
	"github.com/eshaffer321/saletrack/internal/api/middleware"
	"github.com/eshaffer321/saletrack/internal/application/health"
	"github.com/eshaffer321/saletrack/internal/application/inventory"
	"github.com/eshaffer321/saletrack/internal/application/monitor"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8085,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Services are the application components the routes are served from.
// Health and the pingers are optional.
type Services struct {
	Monitor  *monitor.Monitor
	Notifier monitor.Notifier
	Ledger   *inventory.Ledger
	Health   *health.Monitor
	Mailbox  health.Pinger
	Store    health.Pinger
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	services   Services
}

// NewServer creates a new API server.
func NewServer(cfg Config, services Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   gin.New(),
		logger:   logger,
		services: services,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: s.config.AllowedOrigins}))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.services.Health)
	s.router.GET("/health", healthHandler.Live)

	api := s.router.Group("/api")

	statusHandler := handlers.NewStatusHandler(s.services.Mailbox, s.services.Store, s.services.Monitor, s.services.Health)
	api.GET("/status", statusHandler.Get)
	api.POST("/health-check", healthHandler.Check)

	// Orders
	if s.services.Monitor != nil {
		ordersHandler := handlers.NewOrdersHandler(s.services.Monitor, s.services.Notifier)
		api.POST("/check-emails", ordersHandler.CheckEmails)
		api.GET("/orders", ordersHandler.List)
		api.DELETE("/orders", ordersHandler.Clear)
		api.POST("/send-orders-report", ordersHandler.SendReport)
	}

	// Inventory and sales
	if s.services.Ledger != nil {
		inventoryHandler := handlers.NewInventoryHandler(s.services.Ledger)
		api.GET("/inventory", inventoryHandler.List)
		api.POST("/inventory/add", inventoryHandler.Add)
		api.POST("/inventory/update", inventoryHandler.Update)
		api.GET("/inventory/location/:sku", inventoryHandler.Location)

		salesHandler := handlers.NewSalesHandler(s.services.Ledger)
		api.GET("/sales", salesHandler.List)
		api.POST("/sales", salesHandler.Log)
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // scans fetch every matching message
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
