package users

import (
	"errors"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/middleware"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
)

// UploadImageHandler 上傳頭像 (multipart 欄位 image)，取代舊的圖片
// @Summary     Upload profile image
// @Description 只接受可解碼的 JPEG/PNG/GIF/WebP；其他內容回傳 400
// @Tags        users
// @Accept      multipart/form-data
// @Produce     json
// @Param       image formData file true "圖片檔"
// @Success     200 {object} api.ImageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     413 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/image [post]
func UploadImageHandler(db database.DB, images service.ImageStore, maxBytes int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		if maxBytes > 0 {
			if c.Request().ContentLength > maxBytes {
				return tooLarge(c)
			}
			c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
		}

		fh, err := c.FormFile("image")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return tooLarge(c)
			}
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Message: "validation failed",
				Fields:  map[string]string{"image": "no file was submitted"},
			})
		}
		f, err := fh.Open()
		if err != nil {
			return handler.InternalError(c, err)
		}
		defer f.Close()

		userID := middleware.UserID(c)
		user, err := replaceProfileImage(c.Request().Context(), db, images, userID, f)
		if err != nil {
			return handler.Error(c, err)
		}

		resp := api.ImageResponse{ID: user.ID, Image: api.MediaURL(*user.Image)}
		if user.ImageBlurHash != nil {
			resp.BlurHash = *user.ImageBlurHash
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func tooLarge(c echo.Context) error {
	return c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Message: "uploaded file is too large"})
}
