package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"recipe-app/internal/api"
	"recipe-app/internal/logger"
	"recipe-app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps go-playground/validator for Echo；錯誤中的欄位名稱使用 json tag
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// BadRequest 回傳 400 與單一訊息
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msg})
}

// ValidationFailed 把 validator 或 service 的欄位錯誤轉為 400 {"message","fields"}
func ValidationFailed(c echo.Context, err error) error {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	var serr *service.ValidationError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
	case errors.As(err, &serr):
		fields = serr.Fields
	default:
		return BadRequest(c, err.Error())
	}
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "validation failed", Fields: fields})
}

// Error 依錯誤種類回應；未知錯誤記錄 log 後回傳 500 且不洩漏細節
func Error(c echo.Context, err error) error {
	var serr *service.ValidationError
	switch {
	case errors.As(err, &serr):
		return ValidationFailed(c, err)
	case errors.Is(err, service.ErrNotFound):
		return NotFound(c)
	case errors.Is(err, service.ErrInvalidCredentials):
		return BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: err.Error()})
	}
	return InternalError(c, err)
}

func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(c.Request().Context(), "request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		logger.Err(err),
	)
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
}

// fieldPath 去掉最外層的 struct 名稱，例如 RecipeRequest.tags[0].name → tags[0].name
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return "ensure this field has no more than " + fe.Param() + " characters"
	case "min":
		return "ensure this value is greater than or equal to " + fe.Param()
	}
	return "invalid value"
}

// ParamID 解析路徑上的正整數 id；無法解析時回應 404，與不存在的資源相同
func ParamID(c echo.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// NotFound 回傳 404
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "not found"})
}
