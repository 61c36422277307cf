package users

import (
	"context"
	"net/http"
	"time"

	"recipe-app/internal/api"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/model"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	registerUser        = service.RegisterUser
	authenticate        = service.Authenticate
	getUser             = service.GetUser
	getActiveUser       = service.GetActiveUser
	updateProfile       = service.UpdateProfile
	replaceProfileImage = service.ReplaceProfileImage
)

// Tokens 由 service.TokenService 實作
type Tokens interface {
	AccessTTL() time.Duration
	IssueAccessToken(user model.User) (string, error)
	IssueRefreshToken(ctx context.Context, user model.User) (string, error)
	ValidateRefreshToken(ctx context.Context, token string) (*service.RefreshTokenData, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// CreateUserHandler 建立新使用者
// @Summary     Create a new user
// @Description 建立帳號；email 的網域部分會轉為小寫，密碼至少 5 個字元且不會回傳
// @Tags        users
// @Accept      json
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       request body api.CreateUserRequest true "新使用者"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     429 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		user, err := registerUser(c.Request().Context(), db, service.NewUser{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewUserResponse(user))
	}
}
