// Package v1 provides the HTTP handlers for the orchestrator API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kidtutor/orchestrator/internal/domain"
	"github.com/kidtutor/orchestrator/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/init-assistant", h.InitAssistant)
	e.POST("/api/start-session", h.StartSession)
	e.POST("/api/ask", h.Ask)

	e.GET("/api/threads", h.ListThreads)
	e.GET("/api/threads/:thread_id/messages", h.ThreadMessages)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorJSON maps service errors onto HTTP statuses. Validation failures are
// the caller's fault, conflicts are a session that already exists, upstream
// and timeout failures surface as gateway errors.
func errorJSON(c echo.Context, err error) error {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		upstreamErr   *domain.UpstreamError
		timeoutErr    *domain.TimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &conflictErr):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &upstreamErr):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	case errors.As(err, &timeoutErr):
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
