package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyquest/gamification-api/internal/middleware"
	"github.com/studyquest/gamification-api/internal/models"
	"github.com/studyquest/gamification-api/internal/service"
)

type pointsServiceMock struct {
	breakdown   *models.PointsBreakdown
	weeks       []models.WeeklyGradesXP
	total       int
	wagerResult *models.WagerResult
	summary     *models.StreakSummary
	err         error
	lastWager   int
	lastAward   int
	awardCalled bool
}

func (m *pointsServiceMock) AvailablePoints(ctx context.Context, userID string, now time.Time) (*models.PointsBreakdown, error) {
	return m.breakdown, m.err
}

func (m *pointsServiceMock) GradesXP(ctx context.Context, userID string) ([]models.WeeklyGradesXP, int, error) {
	return m.weeks, m.total, m.err
}

func (m *pointsServiceMock) DeductForWager(ctx context.Context, userID string, req service.WagerRequest, now time.Time) (*models.WagerResult, error) {
	m.lastWager = req.Amount
	return m.wagerResult, m.err
}

func (m *pointsServiceMock) AwardWinnings(ctx context.Context, userID string, req service.AwardRequest) error {
	m.awardCalled = true
	m.lastAward = req.Amount
	return m.err
}

func (m *pointsServiceMock) StreakSummary(ctx context.Context, userID string) (*models.StreakSummary, error) {
	return m.summary, m.err
}

func newPointsTestContext(t *testing.T, method, target string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, target, nil)
	}
	require.NoError(t, err)
	c.Request = req
	if userID != "" {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID})
	}
	return c, w
}

func TestPointsHandlerAvailable(t *testing.T) {
	mockSvc := &pointsServiceMock{breakdown: &models.PointsBreakdown{
		AchievementPoints: 12, GradesXP: 251, LedgerPoints: -50, Available: 213,
	}}
	handler := NewPointsHandler(mockSvc)

	c, w := newPointsTestContext(t, http.MethodGet, "/gamification/points", nil, "u1")
	handler.Available(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.PointsBreakdown `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 213, envelope.Data.Available)
	assert.Equal(t, -50, envelope.Data.LedgerPoints)
}

func TestPointsHandlerAvailableRequiresAuth(t *testing.T) {
	handler := NewPointsHandler(&pointsServiceMock{})

	c, w := newPointsTestContext(t, http.MethodGet, "/gamification/points", nil, "")
	handler.Available(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPointsHandlerWager(t *testing.T) {
	mockSvc := &pointsServiceMock{wagerResult: &models.WagerResult{OK: true, Remaining: 40}}
	handler := NewPointsHandler(mockSvc)

	payload, _ := json.Marshal(service.WagerRequest{Amount: 60})
	c, w := newPointsTestContext(t, http.MethodPost, "/gamification/points/wager", payload, "u1")
	handler.Wager(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 60, mockSvc.lastWager)
	var envelope struct {
		Data models.WagerResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.OK)
	assert.Equal(t, 40, envelope.Data.Remaining)
}

func TestPointsHandlerWagerInvalidBody(t *testing.T) {
	handler := NewPointsHandler(&pointsServiceMock{})

	c, w := newPointsTestContext(t, http.MethodPost, "/gamification/points/wager", []byte(`{"amount":`), "u1")
	handler.Wager(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPointsHandlerAward(t *testing.T) {
	mockSvc := &pointsServiceMock{}
	handler := NewPointsHandler(mockSvc)

	payload, _ := json.Marshal(service.AwardRequest{Amount: 120})
	c, w := newPointsTestContext(t, http.MethodPost, "/gamification/points/award", payload, "u1")
	handler.Award(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.awardCalled)
	assert.Equal(t, 120, mockSvc.lastAward)
}

func TestPointsHandlerStreaks(t *testing.T) {
	mockSvc := &pointsServiceMock{summary: &models.StreakSummary{
		DailyStreak: 7, DailyMultiplier: 1.2, DailyPoints: 31,
	}}
	handler := NewPointsHandler(mockSvc)

	c, w := newPointsTestContext(t, http.MethodGet, "/gamification/streaks", nil, "u1")
	handler.Streaks(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.StreakSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 7, envelope.Data.DailyStreak)
	assert.Equal(t, 31, envelope.Data.DailyPoints)
}
