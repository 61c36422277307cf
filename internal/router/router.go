package router

import (
	"context"

	"github.com/labstack/echo/v4"

	"recipe-app/internal/cache"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/handler/admin"
	"recipe-app/internal/handler/recipes"
	"recipe-app/internal/handler/tags"
	"recipe-app/internal/handler/users"
	"recipe-app/internal/metrics"
	"recipe-app/internal/middleware"
	"recipe-app/internal/ratelimit"
	"recipe-app/internal/service"
)

// Deps 為註冊路由所需的元件；Limiter、Metrics 為 nil 時略過
type Deps struct {
	DB             database.DB
	Cache          cache.Cache
	Tokens         *service.TokenService
	Recipes        *service.RecipeService
	Tags           *service.TagService
	Images         service.ImageStore
	MediaRoot      string
	MaxUploadBytes int64
	Limiter        *ratelimit.KeyedRateLimiter
	Metrics        *metrics.Metrics
}

// Setup 註冊所有路由與中介層。
// 中介層逐一掛在路由上而不是 group，未註冊的 method 才會得到 405。
func Setup(e *echo.Echo, d Deps) {
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	if d.MediaRoot != "" {
		e.Static("/media", d.MediaRoot)
	}

	active := middleware.RequireActiveUser(func(ctx context.Context, userID int) error {
		_, err := service.GetActiveUser(ctx, d.DB, userID)
		return err
	})
	verify := middleware.RequireAuth(d.Tokens)
	auth := []echo.MiddlewareFunc{verify, active}
	staff := []echo.MiddlewareFunc{verify, middleware.RequireStaff, active}
	var public []echo.MiddlewareFunc
	if d.Limiter != nil {
		public = append(public, ratelimit.Middleware(d.Limiter))
	}

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 註冊與取得 token
	api.POST("/users", users.CreateUserHandler(d.DB), public...)
	api.POST("/users/token", users.TokenHandler(d.DB, d.Tokens), public...)
	api.POST("/users/token/refresh", users.RefreshTokenHandler(d.DB, d.Tokens), public...)

	// 當前使用者
	api.GET("/users/me", users.GetMeHandler(d.DB), auth...)
	api.PUT("/users/me", users.ReplaceMeHandler(d.DB), auth...)
	api.PATCH("/users/me", users.UpdateMeHandler(d.DB), auth...)
	api.POST("/users/me/image", users.UploadImageHandler(d.DB, d.Images, d.MaxUploadBytes), auth...)

	api.GET("/recipes", recipes.ListHandler(d.Recipes), auth...)
	api.POST("/recipes", recipes.CreateHandler(d.Recipes), auth...)
	api.GET("/recipes/:id", recipes.GetHandler(d.Recipes), auth...)
	api.PUT("/recipes/:id", recipes.ReplaceHandler(d.Recipes), auth...)
	api.PATCH("/recipes/:id", recipes.UpdateHandler(d.Recipes), auth...)
	api.DELETE("/recipes/:id", recipes.DeleteHandler(d.Recipes), auth...)

	api.GET("/tags", tags.ListHandler(d.Tags), auth...)
	api.POST("/tags", tags.CreateHandler(d.Tags), auth...)
	api.GET("/tags/:id", tags.GetHandler(d.Tags), auth...)
	api.PUT("/tags/:id", tags.RenameHandler(d.Tags), auth...)
	api.PATCH("/tags/:id", tags.RenameHandler(d.Tags), auth...)
	api.DELETE("/tags/:id", tags.DeleteHandler(d.Tags), auth...)

	// 管理報表 (唯讀)
	api.GET("/admin/users", admin.ListUsersHandler(d.DB), staff...)
	api.GET("/admin/recipes", admin.ListRecipesHandler(d.Recipes), staff...)
	api.GET("/admin/tags", admin.ListTagsHandler(d.Tags), staff...)
}
