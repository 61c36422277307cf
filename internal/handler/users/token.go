package users

import (
	"errors"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/model"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
)

const msgBadCredentials = "unable to authenticate with provided credentials"

// TokenHandler 以 email/密碼換取 access token 與 refresh token
// @Summary     Obtain auth token
// @Description 驗證 email 與密碼；錯誤的憑證回傳 400 且不發出 token
// @Tags        users
// @Accept      json
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       request body api.TokenRequest true "登入資訊"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     429 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/token [post]
func TokenHandler(db database.DB, tokens Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.TokenRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}

		user, err := authenticate(c.Request().Context(), db, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return handler.BadRequest(c, msgBadCredentials)
			}
			return handler.InternalError(c, err)
		}
		return issueTokens(c, tokens, *user)
	}
}

// RefreshTokenHandler 以 refresh token 換取新的 token 組；舊 refresh token 立即失效
// @Summary     Refresh auth token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.RefreshTokenRequest true "refresh token"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     429 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/token/refresh [post]
func RefreshTokenHandler(db database.DB, tokens Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshTokenRequest
		if err := c.Bind(&req); err != nil {
			return handler.BadRequest(c, "invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		ctx := c.Request().Context()
		data, err := tokens.ValidateRefreshToken(ctx, req.RefreshToken)
		if err != nil {
			return handler.Error(c, err)
		}
		user, err := getActiveUser(ctx, db, data.UserID)
		if err != nil {
			return handler.Error(c, err)
		}
		if err := tokens.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			return handler.InternalError(c, err)
		}
		return issueTokens(c, tokens, *user)
	}
}

func issueTokens(c echo.Context, tokens Tokens, user model.User) error {
	access, err := tokens.IssueAccessToken(user)
	if err != nil {
		return handler.InternalError(c, err)
	}
	refresh, err := tokens.IssueRefreshToken(c.Request().Context(), user)
	if err != nil {
		return handler.InternalError(c, err)
	}
	return c.JSON(http.StatusOK, api.TokenResponse{
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    int64(tokens.AccessTTL().Seconds()),
	})
}
