package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"recipe-app/internal/database"
	"recipe-app/internal/model"

	"github.com/shopspring/decimal"
)

type RecipeRepository interface {
	Create(ctx context.Context, q database.Querier, r *model.Recipe) error
	Get(ctx context.Context, q database.Querier, userID, id int) (*model.Recipe, error)
	GetForUpdate(ctx context.Context, q database.Querier, userID, id int) (*model.Recipe, error)
	ListByUser(ctx context.Context, q database.Querier, userID int) ([]model.Recipe, error)
	ListAll(ctx context.Context, q database.Querier) ([]model.Recipe, error)
	Update(ctx context.Context, q database.Querier, r *model.Recipe) error
	Delete(ctx context.Context, q database.Querier, userID, id int) error
	SetTags(ctx context.Context, q database.Querier, recipeID int, tagIDs []int) error
}

type TagRepository interface {
	Upsert(ctx context.Context, q database.Querier, userID int, name string) (*model.Tag, bool, error)
	Get(ctx context.Context, q database.Querier, userID, id int) (*model.Tag, error)
	ListByUser(ctx context.Context, q database.Querier, userID int) ([]model.Tag, error)
	ListAll(ctx context.Context, q database.Querier) ([]model.Tag, error)
	Rename(ctx context.Context, q database.Querier, userID, id int, name string) (*model.Tag, error)
	Delete(ctx context.Context, q database.Querier, userID, id int) error
	ListForRecipes(ctx context.Context, q database.Querier, recipeIDs []int) (map[int][]model.Tag, error)
}

// RecipeInput 的 nil 欄位代表請求中未出現；Tags 指向空 slice 代表清除所有 tag
type RecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
}

const (
	maxNameLength = 255
	msgRequired   = "this field is required"
	msgBlank      = "this field may not be blank"
	msgTooLong    = "ensure this field has no more than 255 characters"
	msgNegative   = "ensure this value is greater than or equal to 0"
	msgTooLarge   = "ensure this value is less than or equal to 2147483647"
)

var maxPrice = decimal.RequireFromString("999.99")

type RecipeService struct {
	db      database.DB
	recipes RecipeRepository
	tags    TagRepository
	metrics Recorder
}

func NewRecipeService(db database.DB, recipes RecipeRepository, tags TagRepository, metrics Recorder) *RecipeService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &RecipeService{db: db, recipes: recipes, tags: tags, metrics: metrics}
}

// List 回傳使用者自己的 recipes，最新的在前
func (s *RecipeService) List(ctx context.Context, userID int) ([]model.Recipe, error) {
	recipes, err := s.recipes.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, s.db, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListAll 供管理報表使用，不限擁有者
func (s *RecipeService) ListAll(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.recipes.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, s.db, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) Get(ctx context.Context, userID, id int) (*model.Recipe, error) {
	r, err := s.recipes.Get(ctx, s.db, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	list := []model.Recipe{*r}
	if err := s.attachTags(ctx, s.db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Create 驗證欄位後在單一交易中寫入 recipe 並解析 tags
func (s *RecipeService) Create(ctx context.Context, userID int, in RecipeInput) (*model.Recipe, error) {
	if verr := validateRecipe(in, false); verr != nil {
		return nil, verr
	}

	r := &model.Recipe{UserID: userID, Tags: []model.Tag{}}
	applyRecipe(r, in)

	var newTags int
	err := database.WithTx(ctx, s.db, func(q database.Querier) error {
		if err := s.recipes.Create(ctx, q, r); err != nil {
			return err
		}
		if in.Tags == nil {
			return nil
		}
		tags, created, err := s.resolveTags(ctx, q, userID, *in.Tags)
		if err != nil {
			return err
		}
		newTags = created
		if err := s.recipes.SetTags(ctx, q, r.ID, tagIDs(tags)); err != nil {
			return err
		}
		r.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecipeCreated()
	s.recordTags(newTags)
	return r, nil
}

// Update 套用 PATCH (partial) 或 PUT；Tags 有出現時完整取代關聯，擁有者永遠不變
func (s *RecipeService) Update(ctx context.Context, userID, id int, in RecipeInput, partial bool) (*model.Recipe, error) {
	if verr := validateRecipe(in, partial); verr != nil {
		return nil, verr
	}

	var r *model.Recipe
	var newTags int
	err := database.WithTx(ctx, s.db, func(q database.Querier) error {
		var err error
		if r, err = s.recipes.GetForUpdate(ctx, q, userID, id); err != nil {
			return notFound(err)
		}
		applyRecipe(r, in)
		if err := s.recipes.Update(ctx, q, r); err != nil {
			return notFound(err)
		}

		if in.Tags == nil {
			byRecipe, err := s.tags.ListForRecipes(ctx, q, []int{r.ID})
			if err != nil {
				return err
			}
			r.Tags = nonNilTags(byRecipe[r.ID])
			return nil
		}
		tags, created, err := s.resolveTags(ctx, q, userID, *in.Tags)
		if err != nil {
			return err
		}
		newTags = created
		if err := s.recipes.SetTags(ctx, q, r.ID, tagIDs(tags)); err != nil {
			return err
		}
		r.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTags(newTags)
	return r, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, id int) error {
	if err := s.recipes.Delete(ctx, s.db, userID, id); err != nil {
		return notFound(err)
	}
	return nil
}

// resolveTags 去除重複並排序後逐一 upsert；固定順序讓並行交易以相同順序取得鎖。
// 第二個回傳值為新建立的 tag 數量，交易 commit 後才計入 metrics。
func (s *RecipeService) resolveTags(ctx context.Context, q database.Querier, userID int, names []string) ([]model.Tag, int, error) {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	sort.Strings(unique)

	tags := make([]model.Tag, 0, len(unique))
	var created int
	for _, name := range unique {
		tag, isNew, err := s.tags.Upsert(ctx, q, userID, name)
		if err != nil {
			return nil, 0, err
		}
		if isNew {
			created++
		}
		tags = append(tags, *tag)
	}
	return tags, created, nil
}

func (s *RecipeService) recordTags(n int) {
	for i := 0; i < n; i++ {
		s.metrics.TagCreated()
	}
}

func (s *RecipeService) attachTags(ctx context.Context, q database.Querier, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	byRecipe, err := s.tags.ListForRecipes(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range recipes {
		recipes[i].Tags = nonNilTags(byRecipe[recipes[i].ID])
	}
	return nil
}

func applyRecipe(r *model.Recipe, in RecipeInput) {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.TimeMinutes != nil {
		r.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		r.Price = *in.Price
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Link != nil {
		r.Link = strings.TrimSpace(*in.Link)
	}
}

// validateRecipe partial 為 false 時 title、time_minutes、price 為必填
func validateRecipe(in RecipeInput, partial bool) *ValidationError {
	fields := map[string]string{}

	switch {
	case in.Title == nil:
		if !partial {
			fields["title"] = msgRequired
		}
	case strings.TrimSpace(*in.Title) == "":
		fields["title"] = msgBlank
	case tooLong(strings.TrimSpace(*in.Title)):
		fields["title"] = msgTooLong
	}

	switch {
	case in.TimeMinutes == nil:
		if !partial {
			fields["time_minutes"] = msgRequired
		}
	case *in.TimeMinutes < 0:
		fields["time_minutes"] = msgNegative
	case *in.TimeMinutes > math.MaxInt32:
		fields["time_minutes"] = msgTooLarge
	}

	switch {
	case in.Price == nil:
		if !partial {
			fields["price"] = msgRequired
		}
	case in.Price.IsNegative():
		fields["price"] = msgNegative
	case !in.Price.Round(2).Equal(*in.Price):
		fields["price"] = "ensure that there are no more than 2 decimal places"
	case in.Price.GreaterThan(maxPrice):
		fields["price"] = "ensure that there are no more than 5 digits in total"
	}

	if in.Link != nil && tooLong(strings.TrimSpace(*in.Link)) {
		fields["link"] = msgTooLong
	}

	if in.Tags != nil {
		for _, name := range *in.Tags {
			if msg := validateTagName(name); msg != "" {
				fields["tags"] = msg
				break
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func validateTagName(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return msgBlank
	case tooLong(name):
		return msgTooLong
	}
	return ""
}

// tooLong 以字元數比較，與 VARCHAR(255) 及 validator 的 max 一致
func tooLong(s string) bool {
	return utf8.RuneCountInString(s) > maxNameLength
}

func tagIDs(tags []model.Tag) []int {
	ids := make([]int, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func nonNilTags(tags []model.Tag) []model.Tag {
	if tags == nil {
		return []model.Tag{}
	}
	return tags
}
