package tags

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-app/internal/handler"
	"recipe-app/internal/middleware"
	"recipe-app/internal/model"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	ListFn   func(ctx context.Context, userID int) ([]model.Tag, error)
	GetFn    func(ctx context.Context, userID, id int) (*model.Tag, error)
	CreateFn func(ctx context.Context, userID int, name string) (*model.Tag, bool, error)
	RenameFn func(ctx context.Context, userID, id int, name string) (*model.Tag, error)
	DeleteFn func(ctx context.Context, userID, id int) error
}

func (f *fakeService) List(ctx context.Context, userID int) ([]model.Tag, error) {
	return f.ListFn(ctx, userID)
}

func (f *fakeService) Get(ctx context.Context, userID, id int) (*model.Tag, error) {
	return f.GetFn(ctx, userID, id)
}

func (f *fakeService) Create(ctx context.Context, userID int, name string) (*model.Tag, bool, error) {
	return f.CreateFn(ctx, userID, name)
}

func (f *fakeService) Rename(ctx context.Context, userID, id int, name string) (*model.Tag, error) {
	return f.RenameFn(ctx, userID, id, name)
}

func (f *fakeService) Delete(ctx context.Context, userID, id int) error {
	return f.DeleteFn(ctx, userID, id)
}

func newCtx(method, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = handler.NewValidator()
	req := httptest.NewRequest(method, "/api/tags", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetPath("/api/tags/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 9})
	return c, rec
}

func TestListHandler(t *testing.T) {
	svc := &fakeService{ListFn: func(_ context.Context, userID int) ([]model.Tag, error) {
		require.Equal(t, 9, userID)
		return []model.Tag{{ID: 2, UserID: 9, Name: "Vegan"}, {ID: 1, UserID: 9, Name: "Dessert"}}, nil
	}}
	c, rec := newCtx(http.MethodGet, "", "")
	require.NoError(t, ListHandler(svc)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[{"id":2,"name":"Vegan"},{"id":1,"name":"Dessert"}]`, rec.Body.String())
}

func TestCreateHandler(t *testing.T) {
	created := true
	svc := &fakeService{CreateFn: func(_ context.Context, userID int, name string) (*model.Tag, bool, error) {
		return &model.Tag{ID: 3, UserID: userID, Name: name}, created, nil
	}}

	c, rec := newCtx(http.MethodPost, "", `{"name":"Breakfast"}`)
	require.NoError(t, CreateHandler(svc)(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"id":3,"name":"Breakfast"}`, rec.Body.String())

	created = false
	c, rec = newCtx(http.MethodPost, "", `{"name":"Breakfast"}`)
	require.NoError(t, CreateHandler(svc)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newCtx(http.MethodPost, "", `{"name":""}`)
	require.NoError(t, CreateHandler(svc)(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"name"`)
}

func TestGetAndRenameHandlers(t *testing.T) {
	svc := &fakeService{
		GetFn: func(_ context.Context, _ int, id int) (*model.Tag, error) {
			if id != 1 {
				return nil, service.ErrNotFound
			}
			return &model.Tag{ID: 1, Name: "Vegan"}, nil
		},
		RenameFn: func(_ context.Context, _ int, id int, name string) (*model.Tag, error) {
			if name == "Taken" {
				return nil, &service.ValidationError{Fields: map[string]string{"name": "tag with this name already exists"}}
			}
			return &model.Tag{ID: id, Name: name}, nil
		},
	}

	c, rec := newCtx(http.MethodGet, "1", "")
	require.NoError(t, GetHandler(svc)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newCtx(http.MethodGet, "7", "")
	require.NoError(t, GetHandler(svc)(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newCtx(http.MethodPatch, "1", `{"name":"Dessert"}`)
	require.NoError(t, RenameHandler(svc)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":1,"name":"Dessert"}`, rec.Body.String())

	c, rec = newCtx(http.MethodPut, "1", `{"name":"Taken"}`)
	require.NoError(t, RenameHandler(svc)(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newCtx(http.MethodPut, "x", `{"name":"Taken"}`)
	require.NoError(t, RenameHandler(svc)(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHandler(t *testing.T) {
	svc := &fakeService{DeleteFn: func(_ context.Context, _ int, id int) error {
		if id == 1 {
			return nil
		}
		return service.ErrNotFound
	}}

	c, rec := newCtx(http.MethodDelete, "1", "")
	require.NoError(t, DeleteHandler(svc)(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newCtx(http.MethodDelete, "2", "")
	require.NoError(t, DeleteHandler(svc)(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
