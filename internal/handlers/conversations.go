package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/conversation"
	"github.com/zaplinkhq/zaplink/internal/message"
	syncpkg "github.com/zaplinkhq/zaplink/internal/sync"
)

// ConversationsHandler serves the conversation list, message streams, and the
// per-conversation backfill trigger.
type ConversationsHandler struct {
	conversations *conversation.Service
	contacts      *contacts.Service
	coordinator   *syncpkg.Coordinator
	logger        *slog.Logger
}

// NewConversationsHandler creates a conversations handler.
func NewConversationsHandler(log *slog.Logger, conversations *conversation.Service, contactsService *contacts.Service, coordinator *syncpkg.Coordinator) *ConversationsHandler {
	return &ConversationsHandler{
		conversations: conversations,
		contacts:      contactsService,
		coordinator:   coordinator,
		logger:        log.With(slog.String("handler", "conversations")),
	}
}

// Register mounts the conversation and contact routes.
func (h *ConversationsHandler) Register(e *echo.Echo) {
	e.GET("/conversations", h.List)
	e.GET("/conversations/:key/messages", h.Messages)
	e.POST("/conversations/:key/backfill", h.Backfill)
	e.GET("/contacts", h.Contacts)
}

// List godoc
// @Summary List conversations
// @Description Merged conversation list, most recent activity first
// @Tags conversations
// @Success 200 {array} conversation.Conversation
// @Failure 500 {object} ErrorResponse
// @Router /conversations [get]
func (h *ConversationsHandler) List(c echo.Context) error {
	items, err := h.conversations.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// Messages godoc
// @Summary List conversation messages
// @Description Chronologically ordered message stream for one conversation key
// @Tags conversations
// @Param key path string true "Conversation key"
// @Success 200 {array} message.Message
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /conversations/{key}/messages [get]
func (h *ConversationsHandler) Messages(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation key is required")
	}
	items, err := h.conversations.Messages(c.Request().Context(), key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []message.Message{}
	}
	return c.JSON(http.StatusOK, items)
}

// Backfill godoc
// @Summary Backfill one conversation
// @Description Pull deeper history for one conversation until exhausted
// @Tags conversations
// @Param key path string true "Conversation key"
// @Success 200 {object} sync.BackfillResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /conversations/{key}/backfill [post]
func (h *ConversationsHandler) Backfill(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation key is required")
	}
	result, err := h.coordinator.ManualBackfill(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, syncpkg.ErrSyncInFlight) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Contacts godoc
// @Summary List contacts
// @Description All contacts with their observed identifier variants
// @Tags contacts
// @Success 200 {array} contacts.Contact
// @Failure 500 {object} ErrorResponse
// @Router /contacts [get]
func (h *ConversationsHandler) Contacts(c echo.Context) error {
	items, err := h.contacts.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
