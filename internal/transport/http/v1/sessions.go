package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type startSessionRequest struct {
	UserID string `json:"user_id"`
}

// InitAssistant creates the tutor assistant on the backend.
// POST /api/init-assistant
func (h *Handler) InitAssistant(c echo.Context) error {
	ctx := c.Request().Context()

	assistantID, err := h.service.InitAssistant(ctx)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"assistant_id": assistantID,
	})
}

// StartSession creates a conversation thread for a user.
// POST /api/start-session
func (h *Handler) StartSession(c echo.Context) error {
	var req startSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	session, err := h.service.StartSession(ctx, req.UserID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"thread_id": session.ThreadID,
	})
}

// ListThreads lists all stored sessions.
// GET /api/threads
func (h *Handler) ListThreads(c echo.Context) error {
	ctx := c.Request().Context()

	sessions, err := h.service.ListSessions(ctx)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"threads": sessions,
	})
}

// ThreadMessages returns the message history of a thread, newest first.
// GET /api/threads/:thread_id/messages
func (h *Handler) ThreadMessages(c echo.Context) error {
	threadID := c.Param("thread_id")

	ctx := c.Request().Context()

	messages, err := h.service.ThreadMessages(ctx, threadID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}
