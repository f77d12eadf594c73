package service

import (
	"errors"
	"time"

	"github.com/dcodingdev/gearguard/internal/dto"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type JwtCustomClaim struct {
	UserID string  `json:"userId"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	TeamID *string `json:"teamId,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the identity used by the services.
func (c *JwtCustomClaim) Actor() dto.Actor {
	return dto.Actor{UserID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role, TeamID: c.TeamID}
}

type JWTService interface {
	GenerateToken(actor dto.Actor) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
}

type jwtService struct {
	secretKey      []byte
	accessTokenExp time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

func NewJWTService(secretKey string, accessTokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey:      []byte(secretKey),
		accessTokenExp: accessTokenExp,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *jwtService) GenerateToken(actor dto.Actor) (string, error) {
	now := s.now()
	claims := &JwtCustomClaim{
		UserID: actor.UserID,
		Email:  actor.Email,
		Name:   actor.Name,
		Role:   actor.Role,
		TeamID: actor.TeamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenExp
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return s.secretKey, nil
	})
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, apperrors.ErrTokenNotYetValid
		case errors.Is(err, apperrors.ErrInvalidSigningMethod):
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
