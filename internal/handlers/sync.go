package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	syncpkg "github.com/zaplinkhq/zaplink/internal/sync"
)

// SyncHandler exposes sync triggers and cursor inspection.
type SyncHandler struct {
	coordinator *syncpkg.Coordinator
	logger      *slog.Logger
}

// BulkBackfillRequest names the conversations to backfill.
type BulkBackfillRequest struct {
	Scopes []string `json:"scopes"`
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(log *slog.Logger, coordinator *syncpkg.Coordinator) *SyncHandler {
	return &SyncHandler{
		coordinator: coordinator,
		logger:      log.With(slog.String("handler", "sync")),
	}
}

// Register mounts the sync routes.
func (h *SyncHandler) Register(e *echo.Echo) {
	group := e.Group("/sync")
	group.POST("/poll", h.Poll)
	group.POST("/backfill", h.BulkBackfill)
	group.GET("/cursors/:scope", h.Cursor)
	group.POST("/cursors/:scope/reset", h.ResetCursor)
}

// Poll godoc
// @Summary Run one incremental poll
// @Description Fetch and ingest the provider's recent-changes feed now
// @Tags sync
// @Success 200 {object} sync.PollResult
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sync/poll [post]
func (h *SyncHandler) Poll(c echo.Context) error {
	result, err := h.coordinator.PollOnce(c.Request().Context())
	if err != nil {
		if errors.Is(err, syncpkg.ErrSyncInFlight) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// BulkBackfill godoc
// @Summary Backfill many conversations
// @Description Bounded-concurrency backfill; each target reports its own outcome
// @Tags sync
// @Param payload body BulkBackfillRequest true "Target conversation keys"
// @Success 200 {array} sync.TargetResult
// @Failure 400 {object} ErrorResponse
// @Router /sync/backfill [post]
func (h *SyncHandler) BulkBackfill(c echo.Context) error {
	var req BulkBackfillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Scopes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "scopes is required")
	}
	results := h.coordinator.BulkBackfill(c.Request().Context(), req.Scopes)
	return c.JSON(http.StatusOK, results)
}

// Cursor godoc
// @Summary Get a sync cursor
// @Description Current cursor state for a scope ("global" or a conversation key)
// @Tags sync
// @Param scope path string true "Cursor scope"
// @Success 200 {object} sync.Cursor
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sync/cursors/{scope} [get]
func (h *SyncHandler) Cursor(c echo.Context) error {
	scope := c.Param("scope")
	if scope == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "scope is required")
	}
	cursor, err := h.coordinator.Cursor(c.Request().Context(), scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cursor)
}

// ResetCursor godoc
// @Summary Reset a sync cursor
// @Description Rewind a scope to page zero and clear the exhausted flag
// @Tags sync
// @Param scope path string true "Cursor scope"
// @Success 200 {object} sync.Cursor
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sync/cursors/{scope}/reset [post]
func (h *SyncHandler) ResetCursor(c echo.Context) error {
	scope := c.Param("scope")
	if scope == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "scope is required")
	}
	cursor, err := h.coordinator.ResetCursor(c.Request().Context(), scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.logger.Info("cursor reset", slog.String("scope", scope))
	return c.JSON(http.StatusOK, cursor)
}
