package api

import (
	"encoding/json"
	"testing"
	"time"

	"recipe-app/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRecipeRequestPriceFormats(t *testing.T) {
	var fromString, fromNumber RecipeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price":"5.99"}`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"price":5.99}`), &fromNumber))
	require.True(t, fromString.Price.Equal(*fromNumber.Price))

	var missing RecipeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &missing))
	require.Nil(t, missing.Price)
	require.Nil(t, missing.TagNames())
}

func TestRecipeRequestTagNames(t *testing.T) {
	var empty RecipeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":[]}`), &empty))
	names := empty.TagNames()
	require.NotNil(t, names)
	require.Empty(t, *names)

	var two RecipeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":[{"name":"Thai"},{"name":"Dinner"}]}`), &two))
	require.Equal(t, []string{"Thai", "Dinner"}, *two.TagNames())
}

func TestNewRecipeResponse(t *testing.T) {
	r := &model.Recipe{
		ID:          1,
		Title:       "Soup",
		TimeMinutes: 5,
		Price:       decimal.RequireFromString("5.5"),
		Tags:        []model.Tag{{ID: 2, UserID: 9, Name: "Vegan"}},
	}
	resp := NewRecipeResponse(r)
	require.Equal(t, "5.50", resp.Price)
	require.Equal(t, []TagResponse{{ID: 2, Name: "Vegan"}}, resp.Tags)

	body, err := json.Marshal(NewRecipeResponses([]model.Recipe{{Tags: []model.Tag{}}}))
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":0,"title":"","time_minutes":0,"price":"0.00","description":"","link":"","tags":[]}]`, string(body))
}

func TestNewUserResponse(t *testing.T) {
	resp := NewUserResponse(&model.User{Email: "a@example.com", Name: "A"})
	require.Nil(t, resp.Image)

	img := "uploads/user/x.jpg"
	resp = NewUserResponse(&model.User{Email: "a@example.com", Image: &img})
	require.Equal(t, "/media/uploads/user/x.jpg", *resp.Image)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	require.NotContains(t, string(body), "password")
}

func TestNewAdminUserResponse(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := NewAdminUserResponse(model.User{ID: 1, IsStaff: true, LastLogin: &ts})
	require.Equal(t, "2024-05-01T12:00:00Z", *resp.LastLogin)
	require.Nil(t, NewAdminUserResponse(model.User{}).LastLogin)
}
