package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kidtutor/orchestrator/internal/adapter/assistant"
	"github.com/kidtutor/orchestrator/internal/adapter/feeapi"
	"github.com/kidtutor/orchestrator/internal/config"
	"github.com/kidtutor/orchestrator/internal/domain"
	"github.com/kidtutor/orchestrator/internal/hub"
	store "github.com/kidtutor/orchestrator/internal/repository"
	"github.com/kidtutor/orchestrator/internal/service"
	"github.com/kidtutor/orchestrator/internal/tools"
	v1 "github.com/kidtutor/orchestrator/internal/transport/http/v1"
	"github.com/kidtutor/orchestrator/internal/ws"
	"github.com/kidtutor/orchestrator/policy"
)

func main() {
	// Load .env if present, real env vars take precedence
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg := config.Load()

	log.Printf("Starting orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Assistant API URL: %s", cfg.AssistantAPIURL)
	log.Printf("Fee API URL: %s", cfg.FeeAPIURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize assistant backend client
	backend := assistant.NewClient(cfg.AssistantAPIURL, cfg.AssistantAPIKey, cfg.UpstreamTimeout)

	// Initialize fee API client
	feeClient := feeapi.NewClient(cfg.FeeAPIURL, cfg.UpstreamTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize websocket hub
	wsHub := hub.NewHub()
	wsServer := ws.NewServer(cfg, wsHub)

	// Initialize tool registry
	registry := tools.NewRegistry(policyEngine)
	if err := registry.Register(domain.ToolGetCourseFee, tools.CourseFee(feeClient)); err != nil {
		log.Fatalf("Failed to register tool: %v", err)
	}
	if err := registry.Register(domain.ToolShowTime, tools.ShowTime(wsHub)); err != nil {
		log.Fatalf("Failed to register tool: %v", err)
	}

	// Initialize service
	svc := service.New(db, backend, registry, cfg)

	// Initialize handlers
	h := v1.NewHandler(svc)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)
	e.GET("/ws", wsServer.HandleWebSocket)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
