package service

import (
	"go.uber.org/zap"

	"github.com/studyquest/gamification-api/internal/models"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
)

// CatalogService is the read-only achievement registry. Definitions are fixed
// at startup and safely shared across users and concurrent evaluations.
type CatalogService struct {
	all        []models.AchievementDefinition
	byID       map[string]models.AchievementDefinition
	byTier     map[models.Difficulty][]models.AchievementDefinition
	byCategory map[models.Category][]models.AchievementDefinition
	logger     *zap.Logger
}

// NewCatalogService indexes the provided definitions. An empty catalog is
// fatal at startup; an empty individual tier only degrades draws for it.
func NewCatalogService(definitions []models.AchievementDefinition, logger *zap.Logger) (*CatalogService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(definitions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrCatalogEmpty, "achievement catalog is empty")
	}

	s := &CatalogService{
		all:        definitions,
		byID:       make(map[string]models.AchievementDefinition, len(definitions)),
		byTier:     make(map[models.Difficulty][]models.AchievementDefinition),
		byCategory: make(map[models.Category][]models.AchievementDefinition),
		logger:     logger,
	}
	for _, def := range definitions {
		if _, dup := s.byID[def.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrConflict, "duplicate achievement id "+def.ID)
		}
		s.byID[def.ID] = def
		s.byTier[def.Difficulty] = append(s.byTier[def.Difficulty], def)
		s.byCategory[def.Category] = append(s.byCategory[def.Category], def)
	}
	for _, tier := range models.Difficulties {
		if len(s.byTier[tier]) == 0 {
			logger.Warn("catalog tier has no definitions", zap.String("tier", string(tier)))
		}
	}
	return s, nil
}

// All returns every catalog entry.
func (s *CatalogService) All() []models.AchievementDefinition {
	return s.all
}

// ByDifficulty returns the pool for one tier.
func (s *CatalogService) ByDifficulty(tier models.Difficulty) []models.AchievementDefinition {
	return s.byTier[tier]
}

// ByCategory returns every entry in a category.
func (s *CatalogService) ByCategory(category models.Category) []models.AchievementDefinition {
	return s.byCategory[category]
}

// ByID resolves a single definition.
func (s *CatalogService) ByID(id string) (models.AchievementDefinition, bool) {
	def, ok := s.byID[id]
	return def, ok
}

// TierSize returns the pool size for a tier.
func (s *CatalogService) TierSize(tier models.Difficulty) int {
	return len(s.byTier[tier])
}
