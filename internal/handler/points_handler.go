package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyquest/gamification-api/internal/models"
	"github.com/studyquest/gamification-api/internal/service"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
	"github.com/studyquest/gamification-api/pkg/response"
)

type pointsService interface {
	AvailablePoints(ctx context.Context, userID string, now time.Time) (*models.PointsBreakdown, error)
	GradesXP(ctx context.Context, userID string) ([]models.WeeklyGradesXP, int, error)
	DeductForWager(ctx context.Context, userID string, req service.WagerRequest, now time.Time) (*models.WagerResult, error)
	AwardWinnings(ctx context.Context, userID string, req service.AwardRequest) error
	StreakSummary(ctx context.Context, userID string) (*models.StreakSummary, error)
}

// PointsHandler exposes the spendable points and wagering endpoints.
type PointsHandler struct {
	points pointsService
}

// NewPointsHandler constructs handler.
func NewPointsHandler(points pointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

// Available godoc
// @Summary Spendable points with breakdown
// @Tags Points
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/points [get]
func (h *PointsHandler) Available(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	breakdown, err := h.points.AvailablePoints(c.Request.Context(), userID, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown)
}

// GradesXP godoc
// @Summary Weekly grade XP history
// @Tags Points
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/points/grades [get]
func (h *PointsHandler) GradesXP(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	weeks, total, err := h.points.GradesXP(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"weeks": weeks, "total": total})
}

// Wager godoc
// @Summary Deduct points for a wager
// @Tags Points
// @Accept json
// @Produce json
// @Param payload body service.WagerRequest true "Wager payload"
// @Success 200 {object} response.Envelope
// @Router /gamification/points/wager [post]
func (h *PointsHandler) Wager(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.WagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.points.DeductForWager(c.Request.Context(), userID, req, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Award godoc
// @Summary Credit winnings to the ledger
// @Tags Points
// @Accept json
// @Produce json
// @Param payload body service.AwardRequest true "Award payload"
// @Success 200 {object} response.Envelope
// @Router /gamification/points/award [post]
func (h *PointsHandler) Award(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.points.AwardWinnings(c.Request.Context(), userID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "awarded"})
}

// Streaks godoc
// @Summary Streak multipliers and points
// @Tags Points
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/streaks [get]
func (h *PointsHandler) Streaks(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summary, err := h.points.StreakSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
