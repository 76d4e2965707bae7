package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alimgiray/peopleapi/internal/handlers"
	"github.com/alimgiray/peopleapi/internal/metrics"
	"github.com/alimgiray/peopleapi/internal/repositories"
	"github.com/alimgiray/peopleapi/internal/services"
	"github.com/alimgiray/peopleapi/internal/store"
	"github.com/alimgiray/peopleapi/pkg/config"
	"github.com/alimgiray/peopleapi/pkg/database"
	"github.com/alimgiray/peopleapi/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.API.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	collection, err := store.NewSQLiteCollection(context.Background(), db, cfg.Database.Collection)
	if err != nil {
		logger.Fatalf("Failed to open collection: %v", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, "people"))
	appMetrics := metrics.New(registry)

	// Initialize dependencies
	personRepo := repositories.NewPersonRepository(collection)
	personService := services.NewPersonService(personRepo, appMetrics)
	personHandler := handlers.NewPersonHandler(personService)
	healthHandler := handlers.NewHealthHandler(cfg.API.Title, collection)

	router := handlers.NewRouter(personHandler, healthHandler, appMetrics, registry)

	// Setup server
	server := &http.Server{
		Addr:         cfg.API.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("%s starting on %s", cfg.API.Title, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
