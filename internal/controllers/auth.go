package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/services"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type AuthController struct {
	authService  services.AuthServiceInterface
	cookieName   string
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, cookieName string, cookieSecure bool, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, cookieName: cookieName, cookieSecure: cookieSecure, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.setTokenCookie(ctx, res.AccessToken, c.authService.GetTokenTTL())
	return utils.SuccessResponse(ctx, res, "Login successful", http.StatusOK)
}

func (c *AuthController) Register(ctx echo.Context) error {
	var payload dto.RegisterDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.authService.Register(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.setTokenCookie(ctx, res.AccessToken, c.authService.GetTokenTTL())
	return utils.SuccessResponse(ctx, res, "Registration successful", http.StatusCreated)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	c.setTokenCookie(ctx, "", -time.Second)
	return utils.SuccessResponse(ctx, nil, "Logged out", http.StatusOK)
}

func (c *AuthController) Me(ctx echo.Context) error {
	res, err := c.authService.Me(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Current user", http.StatusOK)
}

// setTokenCookie writes the session cookie; a negative ttl deletes it.
func (c *AuthController) setTokenCookie(ctx echo.Context, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	ctx.SetCookie(cookie)
}
