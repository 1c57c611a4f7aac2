package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "comanda-go/docs" // Import generated docs
	"comanda-go/internal/config"
	"comanda-go/internal/controllers"
	"comanda-go/internal/database"
	"comanda-go/internal/middleware"
	"comanda-go/internal/printer"
	"comanda-go/internal/services"
	"comanda-go/internal/ws"
)

var (
	db                *gorm.DB
	menuService       services.MenuService
	orderService      services.OrderService
	menuController    controllers.MenuController
	orderController   controllers.OrderController
	printerController controllers.PrinterController
	hub               *ws.Hub
	printerDevice     *printer.Printer
	configuration     *config.Config
)

// @title Comanda API
// @version 1.0
// @description Table-side ordering with kitchen notification and receipt printing
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Long-lived shared services: broadcast hub and printer connection
	hub = ws.NewHub()
	printerDevice = printer.NewPrinter(printer.NewSerialDiscovery(), nil, configuration.PrinterBaud)
	if err := printerDevice.Connect(configuration.PrinterPort); err != nil {
		log.WithError(err).Warn("Printer not connected at startup, orders will not be printed until it is")
	}

	// Initialize services and controllers
	menuService = services.NewMenuService(db)
	orderService = services.NewOrderService(db, menuService)
	menuController = controllers.NewMenuController(menuService)
	orderController = controllers.NewOrderController(orderService, hub, printerDevice)
	printerController = controllers.NewPrinterController(printerDevice)

	// Initialize Gin router
	router := setupRouter()

	// Start the server
	addr := fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	waitForShutdown(server)
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the SQLite database, migrating and seeding as needed
func setupDatabase(conf *config.Config) {
	var err error
	db, err = database.Connect(conf.DBPath)
	checkPanicErr(err)
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	api := router.Group("/api")
	{
		api.GET("/menu", menuController.GetMenu)
		api.GET("/cardapio/atual", menuController.GetCurrent)

		api.POST("/pedidos", orderController.Create)
		api.GET("/pedidos", orderController.List)
		api.GET("/pedidos/:id", orderController.Get)
		api.PUT("/pedidos/:id/status", orderController.UpdateStatus)

		api.GET("/printer/status", printerController.Status)
		api.POST("/printer/test", printerController.Test)
		api.POST("/printer/connect", printerController.Connect)
		api.GET("/printer/list", printerController.List)
	}

	// Real-time order feed for kitchen and staff viewers
	router.GET("/ws", hub.Handler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "comanda-api",
	})
}

// waitForShutdown blocks until SIGINT/SIGTERM, then closes the HTTP server,
// the printer port and the database handle
func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	if err := printerDevice.Disconnect(); err != nil {
		log.WithError(err).Warn("Closing printer port failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Shutdown complete")
}
