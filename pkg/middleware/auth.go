package middleware

import (
	"strings"

	"github.com/dcodingdev/gearguard/internal/authz"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/service"
	"github.com/dcodingdev/gearguard/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Auth resolves the actor from a Bearer token or the session cookie and stores it in the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := m.extractToken(c)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := utils.WithActor(c.Request().Context(), claims.Actor())
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func (m *AuthMiddleware) extractToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", apperrors.ErrInvalidAuthHeader
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", apperrors.ErrUnauthorized
}

// RequireRole rejects actors whose role is not listed. It must run after Auth.
func RequireRole(logger *zap.Logger, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := utils.GetActorFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if err := authz.RequireRole(actor, roles...); err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			return next(c)
		}
	}
}
