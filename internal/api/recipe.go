package api

import (
	"recipe-app/internal/model"

	"github.com/shopspring/decimal"
)

// swagger:model api.TagRequest
type TagRequest struct {
	Name string `json:"name" validate:"required,max=255" example:"Vegan"`
}

// swagger:model api.TagResponse
type TagResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Vegan"`
}

// RecipeRequest 用於 POST/PUT/PATCH；nil 欄位代表請求中未出現。
// price 可為 JSON 字串或數字。tags 出現時 (包含 []) 會完整取代既有關聯。
// swagger:model api.RecipeRequest
type RecipeRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255" example:"Sample recipe"`
	TimeMinutes *int             `json:"time_minutes" example:"33"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"5.99"`
	Description *string          `json:"description" example:"Sample description"`
	Link        *string          `json:"link" validate:"omitempty,max=255" example:"https://example.com/recipe.pdf"`
	Tags        *[]TagRequest    `json:"tags" validate:"omitempty,dive"`
}

// swagger:model api.RecipeResponse
type RecipeResponse struct {
	ID          int           `json:"id" example:"1"`
	Title       string        `json:"title" example:"Sample recipe"`
	TimeMinutes int           `json:"time_minutes" example:"33"`
	Price       string        `json:"price" example:"5.99"`
	Description string        `json:"description" example:"Sample description"`
	Link        string        `json:"link" example:"https://example.com/recipe.pdf"`
	Tags        []TagResponse `json:"tags"`
}

// swagger:model api.AdminRecipeResponse
type AdminRecipeResponse struct {
	RecipeResponse
	UserID int `json:"user_id" example:"1"`
}

// swagger:model api.AdminTagResponse
type AdminTagResponse struct {
	TagResponse
	UserID int `json:"user_id" example:"1"`
}

func NewTagResponse(t model.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

func NewTagResponses(tags []model.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = NewTagResponse(t)
	}
	return out
}

func NewRecipeResponse(r *model.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Description: r.Description,
		Link:        r.Link,
		Tags:        NewTagResponses(r.Tags),
	}
}

func NewRecipeResponses(recipes []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		out[i] = NewRecipeResponse(&recipes[i])
	}
	return out
}

// TagNames 回傳 nil 代表 tags 欄位未出現
func (r RecipeRequest) TagNames() *[]string {
	if r.Tags == nil {
		return nil
	}
	names := make([]string, len(*r.Tags))
	for i, t := range *r.Tags {
		names[i] = t.Name
	}
	return &names
}
