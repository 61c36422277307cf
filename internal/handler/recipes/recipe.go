package recipes

import (
	"context"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/handler"
	"recipe-app/internal/middleware"
	"recipe-app/internal/model"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
)

// Service 由 service.RecipeService 實作；所有操作都以目前使用者為範圍
type Service interface {
	List(ctx context.Context, userID int) ([]model.Recipe, error)
	Get(ctx context.Context, userID, id int) (*model.Recipe, error)
	Create(ctx context.Context, userID int, in service.RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, userID, id int, in service.RecipeInput, partial bool) (*model.Recipe, error)
	Delete(ctx context.Context, userID, id int) error
}

func toInput(req api.RecipeRequest) service.RecipeInput {
	return service.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.TagNames(),
	}
}

// ListHandler 列出自己的 recipes，最新的在前
// @Summary     List recipes
// @Tags        recipes
// @Produce     json
// @Success     200 {array}  api.RecipeResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes [get]
func ListHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		recipes, err := svc.List(c.Request().Context(), middleware.UserID(c))
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponses(recipes))
	}
}

// CreateHandler 建立 recipe；tags 依名稱沿用或建立自己的 Tag
// @Summary     Create recipe
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       request body api.RecipeRequest true "recipe"
// @Success     201 {object} api.RecipeResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes [post]
func CreateHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RecipeRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}
		recipe, err := svc.Create(c.Request().Context(), middleware.UserID(c), toInput(req))
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewRecipeResponse(recipe))
	}
}

// GetHandler 取得自己的 recipe；他人的 recipe 與不存在相同，回傳 404
// @Summary     Get recipe
// @Tags        recipes
// @Produce     json
// @Param       id path int true "recipe ID"
// @Success     200 {object} api.RecipeResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [get]
func GetHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := handler.ParamID(c, "id")
		if !ok {
			return handler.NotFound(c)
		}
		recipe, err := svc.Get(c.Request().Context(), middleware.UserID(c), id)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponse(recipe))
	}
}

// ReplaceHandler 為 PUT：title、time_minutes、price 必填
// @Summary     Replace recipe
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       id      path int               true "recipe ID"
// @Param       request body api.RecipeRequest true "recipe"
// @Success     200 {object} api.RecipeResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [put]
func ReplaceHandler(svc Service) echo.HandlerFunc {
	return update(svc, false)
}

// UpdateHandler 為 PATCH：只更新出現的欄位；tags: [] 會清除所有關聯
// @Summary     Update recipe
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       id      path int               true "recipe ID"
// @Param       request body api.RecipeRequest true "要更新的欄位"
// @Success     200 {object} api.RecipeResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [patch]
func UpdateHandler(svc Service) echo.HandlerFunc {
	return update(svc, true)
}

func update(svc Service, partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := handler.ParamID(c, "id")
		if !ok {
			return handler.NotFound(c)
		}
		var req api.RecipeRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}
		recipe, err := svc.Update(c.Request().Context(), middleware.UserID(c), id, toInput(req), partial)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponse(recipe))
	}
}

// DeleteHandler 刪除自己的 recipe；tags 保留
// @Summary     Delete recipe
// @Tags        recipes
// @Param       id path int true "recipe ID"
// @Success     204
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [delete]
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
