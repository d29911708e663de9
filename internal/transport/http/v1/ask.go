package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kidtutor/orchestrator/internal/service"
)

// Ask submits a question to the assistant and waits for the reply.
// POST /api/ask
func (h *Handler) Ask(c echo.Context) error {
	var req service.AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	reply, err := h.service.AskQuestion(ctx, req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"reply": reply,
	})
}
