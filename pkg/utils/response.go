package utils

import (
	"errors"
	"net/http"

	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

type ListBody struct {
	List       interface{}      `json:"list"`
	Pagination types.Pagination `json:"pagination"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// SuccessListResponse wraps a page of results with pagination metadata.
func SuccessListResponse(ctx echo.Context, list interface{}, message string, filter types.Filter, total uint64) error {
	if !filter.WithPagination {
		return SuccessResponse(ctx, list, message, http.StatusOK)
	}
	body := ListBody{
		List:       list,
		Pagination: types.NewPagination(total, filter.Page, filter.Limit),
	}
	return SuccessResponse(ctx, body, message, http.StatusOK)
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ErrorResponse maps err to a status code and a client-safe message.
// Server-side failures are logged with their cause; clients only see a generic text.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]fieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Validation failed",
			"error":   details,
		})
	}

	code := apperrors.HTTPStatus(err)
	message := apperrors.UserMessage(err)

	fields := []zap.Field{
		zap.Int("code", code),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.String("request_id", GetRequestIDFromCtx(c.Request().Context())),
		zap.Error(err),
	}
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) && httpErr.Context != nil {
		fields = append(fields, zap.Any("context", httpErr.Context))
	}

	response := map[string]interface{}{
		"status":  false,
		"message": message,
	}
	if httpErr != nil && httpErr.Details != nil {
		response["error"] = httpErr.Details
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}

	return c.JSON(code, response)
}
