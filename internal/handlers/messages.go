package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/outbound"
)

// MessagesHandler sends outbound messages.
type MessagesHandler struct {
	outbound *outbound.Service
	logger   *slog.Logger
}

// SendMessageRequest is the outbound send payload.
type SendMessageRequest struct {
	RawIdentifier string `json:"raw_identifier"`
	Text          string `json:"text"`
}

// NewMessagesHandler creates a messages handler.
func NewMessagesHandler(log *slog.Logger, outboundService *outbound.Service) *MessagesHandler {
	return &MessagesHandler{
		outbound: outboundService,
		logger:   log.With(slog.String("handler", "messages")),
	}
}

// Register mounts the message routes.
func (h *MessagesHandler) Register(e *echo.Echo) {
	e.POST("/messages/send", h.Send)
}

// Send godoc
// @Summary Send a message
// @Description Send a text message to a raw identifier through the gateway
// @Tags messages
// @Param payload body SendMessageRequest true "Send payload"
// @Success 201 {object} message.Message
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /messages/send [post]
func (h *MessagesHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.RawIdentifier) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "raw_identifier is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	msg, err := h.outbound.Send(c.Request().Context(), req.RawIdentifier, req.Text)
	if err != nil {
		if errors.Is(err, identity.ErrUnresolvedIdentifier) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, msg)
}
