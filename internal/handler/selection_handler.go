package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyquest/gamification-api/internal/middleware"
	"github.com/studyquest/gamification-api/internal/models"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
	"github.com/studyquest/gamification-api/pkg/response"
)

type weeklySelectionService interface {
	GetOrCreateSelectionDetailed(ctx context.Context, userID string, now time.Time) (*models.WeeklySelection, bool, error)
	ForceRefreshSelection(ctx context.Context, userID string, now time.Time) (*models.WeeklySelection, error)
	AvailableCounts(ctx context.Context, userID string) (*models.TierAvailability, error)
	UsageStats(ctx context.Context, userID string) (*models.UsageStats, error)
}

type weeklyProgressService interface {
	CurrentWeekProgress(ctx context.Context, userID string, now time.Time) (*models.WeeklyProgress, error)
}

// SelectionHandler exposes the weekly achievement selection endpoints.
type SelectionHandler struct {
	selections weeklySelectionService
	progress   weeklyProgressService
}

// NewSelectionHandler constructs handler.
func NewSelectionHandler(selections weeklySelectionService, progress weeklyProgressService) *SelectionHandler {
	return &SelectionHandler{selections: selections, progress: progress}
}

// Get godoc
// @Summary Get or create the current week's achievement selection
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/selection [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	selection, fromCache, err := h.selections.GetOrCreateSelectionDetailed(c.Request.Context(), userID, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, fromCache)
	response.JSON(c, http.StatusOK, selection, middleware.ExtractMeta(c))
}

// Refresh godoc
// @Summary Reroll the current week's selection
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/selection/refresh [post]
func (h *SelectionHandler) Refresh(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	selection, err := h.selections.ForceRefreshSelection(c.Request.Context(), userID, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, selection)
}

// Availability godoc
// @Summary Remaining drawable achievements per tier
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/selection/availability [get]
func (h *SelectionHandler) Availability(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	counts, err := h.selections.AvailableCounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

// Usage godoc
// @Summary Usage ledger statistics
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/selection/usage [get]
func (h *SelectionHandler) Usage(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.selections.UsageStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Progress godoc
// @Summary Live progress for the current week's selection
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/progress [get]
func (h *SelectionHandler) Progress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	progress, err := h.progress.CurrentWeekProgress(c.Request.Context(), userID, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress)
}
