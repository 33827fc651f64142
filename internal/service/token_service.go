package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/studyquest/gamification-api/internal/models"
	"github.com/studyquest/gamification-api/pkg/config"
	appErrors "github.com/studyquest/gamification-api/pkg/errors"
)

// TokenService validates access tokens issued by the platform auth service.
// This API never issues tokens itself.
type TokenService struct {
	secret []byte
}

// NewTokenService constructs the validator.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{secret: []byte(cfg.Secret)}
}

// ValidateToken parses and verifies an HS256 bearer token.
func (s *TokenService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}
