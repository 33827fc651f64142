package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyquest/gamification-api/internal/models"
	"github.com/studyquest/gamification-api/internal/service"
	"github.com/studyquest/gamification-api/pkg/response"
)

// CatalogHandler exposes the read-only achievement registry.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List achievement definitions
// @Tags Gamification
// @Produce json
// @Param difficulty query string false "Filter by tier (easy|medium|hard)"
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Envelope
// @Router /gamification/achievements [get]
func (h *CatalogHandler) List(c *gin.Context) {
	if difficulty := c.Query("difficulty"); difficulty != "" {
		response.JSON(c, http.StatusOK, h.catalog.ByDifficulty(models.Difficulty(difficulty)))
		return
	}
	if category := c.Query("category"); category != "" {
		response.JSON(c, http.StatusOK, h.catalog.ByCategory(models.Category(category)))
		return
	}
	response.JSON(c, http.StatusOK, h.catalog.All())
}
