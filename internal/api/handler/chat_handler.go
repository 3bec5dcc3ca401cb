package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhq/sales-insights/internal/api/metrics"
	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatMessageRequest struct {
	Role    string `json:"role"    validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

type chatRequest struct {
	Messages []chatMessageRequest `json:"messages" validate:"required,min=1,dive"`
	Model    string               `json:"model"`
}

type chatResponse struct {
	Message domain.ChatMessage `json:"message"`
}

// Ask sends the conversation to the sales assistant and returns one assistant
// message. The caller carries the history; the server holds no chat state.
//
// @Summary      Ask the sales assistant
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Ordered role-tagged conversation"
// @Success      200   {object}  chatResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/chat [post]
func (h *ChatHandler) Ask(c echo.Context) error {
	username, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	messages := make([]domain.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = domain.ChatMessage{Role: m.Role, Content: m.Content}
	}

	reply, err := h.chat.Ask(c.Request().Context(), username, req.Model, messages)
	if err != nil {
		metrics.CollaboratorRequestsTotal.WithLabelValues("chat", "error").Inc()
		return err
	}

	metrics.CollaboratorRequestsTotal.WithLabelValues("chat", "ok").Inc()
	return c.JSON(http.StatusOK, chatResponse{Message: reply})
}
