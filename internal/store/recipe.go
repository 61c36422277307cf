package store

import (
	"context"
	"fmt"

	"recipe-app/internal/database"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RecipeRepository 只處理 recipes 與 recipe_tags；user_id 建立後不會被更新
type RecipeRepository struct{}

const recipeColumns = `id, user_id, title, time_minutes, price::text, description, link, created_at`

func scanRecipe(row pgx.Row, r *model.Recipe) error {
	var price string
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&price,
		&r.Description,
		&r.Link,
		&r.CreatedAt,
	); err != nil {
		return err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", price, err)
	}
	r.Price = p
	return nil
}

func (RecipeRepository) Create(ctx context.Context, q database.Querier, r *model.Recipe) error {
	err := q.QueryRow(ctx,
		`INSERT INTO recipes (user_id, title, time_minutes, price, description, link)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6)
		 RETURNING id, created_at`,
		r.UserID,
		r.Title,
		r.TimeMinutes,
		r.Price.String(),
		r.Description,
		r.Link,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("CreateRecipe: %w", err)
	}
	return nil
}

func (RecipeRepository) Get(ctx context.Context, q database.Querier, userID, id int) (*model.Recipe, error) {
	r := &model.Recipe{}
	row := q.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err := scanRecipe(row, r); err != nil {
		return nil, fmt.Errorf("GetRecipe: %w", err)
	}
	return r, nil
}

// GetForUpdate 與 Get 相同，但會在交易中鎖住該筆資料
func (RecipeRepository) GetForUpdate(ctx context.Context, q database.Querier, userID, id int) (*model.Recipe, error) {
	r := &model.Recipe{}
	row := q.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id,
		userID,
	)
	if err := scanRecipe(row, r); err != nil {
		return nil, fmt.Errorf("GetRecipeForUpdate: %w", err)
	}
	return r, nil
}

func (RecipeRepository) ListByUser(ctx context.Context, q database.Querier, userID int) ([]model.Recipe, error) {
	rows, err := q.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE user_id = $1 ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}
	return recipes, nil
}

// ListAll 供管理報表使用
func (RecipeRepository) ListAll(ctx context.Context, q database.Querier) ([]model.Recipe, error) {
	rows, err := q.Query(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListAllRecipes: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, fmt.Errorf("ListAllRecipes: %w", err)
	}
	return recipes, nil
}

func (RecipeRepository) Update(ctx context.Context, q database.Querier, r *model.Recipe) error {
	tag, err := q.Exec(ctx,
		`UPDATE recipes SET
		     title = $1,
		     time_minutes = $2,
		     price = $3::numeric,
		     description = $4,
		     link = $5
		 WHERE id = $6 AND user_id = $7`,
		r.Title,
		r.TimeMinutes,
		r.Price.String(),
		r.Description,
		r.Link,
		r.ID,
		r.UserID,
	)
	if err != nil {
		return fmt.Errorf("UpdateRecipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateRecipe: %w", pgx.ErrNoRows)
	}
	return nil
}

// Delete 移除 recipe；recipe_tags 透過 ON DELETE CASCADE 一併清除，tags 本身保留
func (RecipeRepository) Delete(ctx context.Context, q database.Querier, userID, id int) error {
	tag, err := q.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("DeleteRecipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteRecipe: %w", pgx.ErrNoRows)
	}
	return nil
}

// SetTags 以 tagIDs 完整取代 recipe 的關聯；空集合代表清除
func (RecipeRepository) SetTags(ctx context.Context, q database.Querier, recipeID int, tagIDs []int) error {
	if _, err := q.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("SetRecipeTags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx,
		`INSERT INTO recipe_tags (recipe_id, tag_id)
		 SELECT $1, unnest($2::int[])
		 ON CONFLICT DO NOTHING`,
		recipeID,
		tagIDs,
	)
	if err != nil {
		return fmt.Errorf("SetRecipeTags: %w", err)
	}
	return nil
}

func collectRecipes(rows pgx.Rows) ([]model.Recipe, error) {
	defer rows.Close()
	recipes := []model.Recipe{}
	for rows.Next() {
		var r model.Recipe
		if err := scanRecipe(rows, &r); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}
