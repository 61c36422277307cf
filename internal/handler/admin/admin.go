package admin

import (
	"context"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/model"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
)

var listUsers = service.ListUsers

// RecipeLister 由 service.RecipeService 實作
type RecipeLister interface {
	ListAll(ctx context.Context) ([]model.Recipe, error)
}

// TagLister 由 service.TagService 實作
type TagLister interface {
	ListAll(ctx context.Context) ([]model.Tag, error)
}

// ListUsersHandler 列出所有使用者
// @Summary     List all users
// @Tags        admin
// @Produce     json
// @Success     200 {array}  api.AdminUserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return handler.Error(c, err)
		}
		resp := make([]api.AdminUserResponse, len(users))
		for i, u := range users {
			resp[i] = api.NewAdminUserResponse(u)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// ListRecipesHandler 列出所有使用者的 recipes
// @Summary     List all recipes
// @Tags        admin
// @Produce     json
// @Success     200 {array}  api.AdminRecipeResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/recipes [get]
func ListRecipesHandler(svc RecipeLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		recipes, err := svc.ListAll(c.Request().Context())
		if err != nil {
			return handler.Error(c, err)
		}
		resp := make([]api.AdminRecipeResponse, len(recipes))
		for i := range recipes {
			resp[i] = api.AdminRecipeResponse{
				RecipeResponse: api.NewRecipeResponse(&recipes[i]),
				UserID:         recipes[i].UserID,
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// ListTagsHandler 列出所有使用者的 tags
// @Summary     List all tags
// @Tags        admin
// @Produce     json
// @Success     200 {array}  api.AdminTagResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/tags [get]
func ListTagsHandler(svc TagLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags, err := svc.ListAll(c.Request().Context())
		if err != nil {
			return handler.Error(c, err)
		}
		resp := make([]api.AdminTagResponse, len(tags))
		for i, t := range tags {
			resp[i] = api.AdminTagResponse{TagResponse: api.NewTagResponse(t), UserID: t.UserID}
		}
		return c.JSON(http.StatusOK, resp)
	}
}
