package middleware

import (
	"context"
	"time"

	"github.com/dcodingdev/gearguard/pkg/contextkeys"
	"github.com/dcodingdev/gearguard/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger assigns a request id and logs every request once it completes.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), contextkeys.RequestIDKey, requestID)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			if actor, aerr := utils.GetActorFromCtx(c.Request().Context()); aerr == nil {
				fields = append(fields, zap.String("user_id", actor.UserID))
			}

			switch status := c.Response().Status; {
			case status >= 500:
				logger.Error("http request", fields...)
			case status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		}
	}
}
