package tags

import (
	"context"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/handler"
	"recipe-app/internal/middleware"
	"recipe-app/internal/model"

	"github.com/labstack/echo/v4"
)

// Service 由 service.TagService 實作
type Service interface {
	List(ctx context.Context, userID int) ([]model.Tag, error)
	Get(ctx context.Context, userID, id int) (*model.Tag, error)
	Create(ctx context.Context, userID int, name string) (*model.Tag, bool, error)
	Rename(ctx context.Context, userID, id int, name string) (*model.Tag, error)
	Delete(ctx context.Context, userID, id int) error
}

// ListHandler 列出自己的 tags，依名稱反序
// @Summary     List tags
// @Tags        tags
// @Produce     json
// @Success     200 {array}  api.TagResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags [get]
func ListHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags, err := svc.List(c.Request().Context(), middleware.UserID(c))
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewTagResponses(tags))
	}
}

// CreateHandler 建立 tag；同名 tag 已存在時直接回傳該筆
// @Summary     Create tag
// @Description 已存在同名 tag 時回傳 200 與既有資料，否則 201
// @Tags        tags
// @Accept      json
// @Produce     json
// @Param       request body api.TagRequest true "tag"
// @Success     201 {object} api.TagResponse
// @Success     200 {object} api.TagResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags [post]
func CreateHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.TagRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}
		tag, created, err := svc.Create(c.Request().Context(), middleware.UserID(c), req.Name)
		if err != nil {
			return handler.Error(c, err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.JSON(status, api.NewTagResponse(*tag))
	}
}

// GetHandler 取得自己的 tag
// @Summary     Get tag
// @Tags        tags
// @Produce     json
// @Param       id path int true "tag ID"
// @Success     200 {object} api.TagResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags/{id} [get]
func GetHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := handler.ParamID(c, "id")
		if !ok {
			return handler.NotFound(c)
		}
		tag, err := svc.Get(c.Request().Context(), middleware.UserID(c), id)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewTagResponse(*tag))
	}
}

// RenameHandler 供 PUT 與 PATCH 共用；改成自己已有的名稱回傳 400
// @Summary     Rename tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Param       id      path int            true "tag ID"
// @Param       request body api.TagRequest true "新名稱"
// @Success     200 {object} api.TagResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags/{id} [patch]
// @Router      /tags/{id} [put]
func RenameHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := handler.ParamID(c, "id")
		if !ok {
			return handler.NotFound(c)
		}
		var req api.TagRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}
		tag, err := svc.Rename(c.Request().Context(), middleware.UserID(c), id, req.Name)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewTagResponse(*tag))
	}
}

// DeleteHandler 刪除自己的 tag；使用它的 recipes 只失去這個關聯
// @Summary     Delete tag
// @Tags        tags
// @Param       id path int true "tag ID"
// @Success     204
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags/{id} [delete]
func DeleteHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := handler.ParamID(c, "id")
		if !ok {
			return handler.NotFound(c)
		}
		if err := svc.Delete(c.Request().Context(), middleware.UserID(c), id); err != nil {
			return handler.Error(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
