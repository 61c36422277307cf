package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const ContextUserKey = "user"

// TokenVerifier 由 service.TokenService 實作
type TokenVerifier interface {
	VerifyAccessToken(token string) (*service.CustomClaims, error)
}

func extractClaims(c echo.Context, v TokenVerifier) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	claims, err := v.VerifyAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer JWT 並把 claims 放入 context；失敗時不會讀取任何狀態
func RequireAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, v)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// ActiveUserFunc 在使用者不存在或已停用時回傳 service.ErrInvalidToken
type ActiveUserFunc func(ctx context.Context, userID int) error

// RequireActiveUser 必須放在 RequireAuth 之後。
// access token 在有效期內仍可能屬於已停用或刪除的帳號，每個請求都回資料庫確認。
func RequireActiveUser(check ActiveUserFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
			}
			if err := check(c.Request().Context(), claims.UserID); err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "user inactive or deleted")
				}
				return err
			}
			return next(c)
		}
	}
}

// RequireStaff 必須放在 RequireAuth 之後
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := Claims(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
		}
		if !claims.IsStaff {
			return echo.NewHTTPError(http.StatusForbidden, "staff privileges required")
		}
		return next(c)
	}
}

// Claims 取出 RequireAuth 設定的 claims；未驗證時回傳 nil
func Claims(c echo.Context) *service.CustomClaims {
	claims, _ := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims
}

// UserID 回傳目前使用者 ID；未驗證時為 0
func UserID(c echo.Context) int {
	if claims := Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// RequestLogger 把每個請求以 slog 記錄
func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.RequestID != "" {
				attrs = append(attrs, slog.String("request_id", v.RequestID))
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
