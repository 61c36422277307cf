package users

import (
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/middleware"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
)

// GetMeHandler 取得當前使用者資訊
// @Summary     Get current user
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := getUser(c.Request().Context(), db, middleware.UserID(c))
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// ReplaceMeHandler 以完整資料取代個人資料
// @Summary     Replace current user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.ReplaceMeRequest true "個人資料"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [put]
func ReplaceMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ReplaceMeRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		user, err := updateProfile(c.Request().Context(), db, middleware.UserID(c), service.ProfileUpdate{
			Email:    &req.Email,
			Name:     &req.Name,
			Password: &req.Password,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// UpdateMeHandler 部分更新個人資料；未提供的欄位不變
// @Summary     Update current user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.UpdateMeRequest true "要更新的欄位"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [patch]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		user, err := updateProfile(c.Request().Context(), db, middleware.UserID(c), service.ProfileUpdate{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
