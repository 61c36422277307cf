package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-app/internal/api"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newCtx() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&api.RecipeRequest{Tags: &[]api.TagRequest{{Name: ""}}})
	require.Error(t, err)

	c, rec := newCtx()
	require.NoError(t, ValidationFailed(c, err))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "validation failed", body.Message)
	require.Equal(t, "this field is required", body.Fields["tags[0].name"])

	err = v.Validate(&api.CreateUserRequest{Email: "bad", Password: "x"})
	c, rec = newCtx()
	require.NoError(t, ValidationFailed(c, err))
	require.Equal(t, "enter a valid email address", decode(t, rec).Fields["email"])

	require.NoError(t, v.Validate(&api.CreateUserRequest{Email: "a@example.com", Password: "x"}))
}

func TestValidationFailedPlainError(t *testing.T) {
	c, rec := newCtx()
	require.NoError(t, ValidationFailed(c, errors.New("plain")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "plain", decode(t, rec).Message)
}

func TestError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{&service.ValidationError{Fields: map[string]string{"title": "x"}}, http.StatusBadRequest, "validation failed"},
		{fmt.Errorf("wrap: %w", service.ErrNotFound), http.StatusNotFound, "not found"},
		{service.ErrInvalidCredentials, http.StatusBadRequest, service.ErrInvalidCredentials.Error()},
		{service.ErrInvalidToken, http.StatusUnauthorized, service.ErrInvalidToken.Error()},
		{errors.New("secret db detail"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		c, rec := newCtx()
		require.NoError(t, Error(c, tc.err))
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
		require.Equal(t, tc.msg, decode(t, rec).Message)
	}
}

func TestParamID(t *testing.T) {
	for val, want := range map[string]int{"12": 12, "0": 0, "-3": 0, "abc": 0, "": 0} {
		c, _ := newCtx()
		c.SetParamNames("id")
		c.SetParamValues(val)
		id, ok := ParamID(c, "id")
		require.Equal(t, want, id, val)
		require.Equal(t, want != 0, ok, val)
	}
}
