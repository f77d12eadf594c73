package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
)

// bindAndValidate decodes the JSON body into dst and runs struct validation.
func bindAndValidate(ctx echo.Context, dst interface{}) error {
	if err := ctx.Bind(dst); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err, nil)
	}
	return ctx.Validate(dst)
}

func pathID(ctx echo.Context, name string) (string, error) {
	id := ctx.Param(name)
	if id == "" {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "Missing id", nil, map[string]interface{}{"param": name})
	}
	return id, nil
}
