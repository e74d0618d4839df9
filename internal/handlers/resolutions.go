package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/message"
	"github.com/zaplinkhq/zaplink/internal/outbound"
)

// ResolutionsHandler manages manual identifier resolutions. Registering one
// folds the former singleton conversation into its contact and retries any
// parked outbound sends.
type ResolutionsHandler struct {
	registry *identity.Registry
	contacts *contacts.Service
	messages *message.DBService
	outbound *outbound.Service
	logger   *slog.Logger
}

// RegisterResolutionRequest maps an opaque raw identifier to a phone number.
type RegisterResolutionRequest struct {
	RawIdentifier string `json:"raw_identifier"`
	PhoneNumber   string `json:"phone_number"`
}

// ResolutionResponse is the stored override plus what the registration moved.
type ResolutionResponse struct {
	identity.ManualResolution
	MessagesMoved int64 `json:"messages_moved"`
	SendsRetried  int   `json:"sends_retried"`
}

// NewResolutionsHandler creates a resolutions handler.
func NewResolutionsHandler(log *slog.Logger, registry *identity.Registry, contactsService *contacts.Service, messages *message.DBService, outboundService *outbound.Service) *ResolutionsHandler {
	return &ResolutionsHandler{
		registry: registry,
		contacts: contactsService,
		messages: messages,
		outbound: outboundService,
		logger:   log.With(slog.String("handler", "resolutions")),
	}
}

// Register mounts the resolution routes.
func (h *ResolutionsHandler) Register(e *echo.Echo) {
	e.POST("/resolutions", h.Create)
	e.GET("/resolutions", h.List)
}

// Create godoc
// @Summary Register a manual resolution
// @Description Map a raw identifier to a phone number, rekey its messages, and retry parked sends
// @Tags resolutions
// @Param payload body RegisterResolutionRequest true "Resolution payload"
// @Success 201 {object} ResolutionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /resolutions [post]
func (h *ResolutionsHandler) Create(c echo.Context) error {
	var req RegisterResolutionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	resolution, err := h.registry.Register(ctx, req.RawIdentifier, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, identity.ErrUnresolvedIdentifier) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact, err := h.contacts.Observe(ctx, contacts.Observation{
		CanonicalKey:  resolution.CanonicalKey,
		RawIdentifier: resolution.RawIdentifier,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	moved, err := h.messages.Rekey(ctx, resolution.RawIdentifier, contact.CanonicalKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	retried := h.outbound.RetryPending(ctx, resolution.RawIdentifier)

	return c.JSON(http.StatusCreated, ResolutionResponse{
		ManualResolution: resolution,
		MessagesMoved:    moved,
		SendsRetried:     retried,
	})
}

// List godoc
// @Summary List manual resolutions
// @Description All registered raw-to-canonical overrides, newest first
// @Tags resolutions
// @Success 200 {array} identity.ManualResolution
// @Failure 500 {object} ErrorResponse
// @Router /resolutions [get]
func (h *ResolutionsHandler) List(c echo.Context) error {
	items, err := h.registry.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
