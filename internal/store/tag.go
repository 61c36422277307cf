package store

import (
	"context"
	"fmt"

	"recipe-app/internal/database"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
)

// TagRepository 所有查詢都以 user_id 限定範圍；不屬於該使用者的資料一律視為不存在
type TagRepository struct{}

// Upsert 依 (user_id, name) 取得或建立 Tag；created 表示此次呼叫新增了資料列。
// ON CONFLICT DO UPDATE 讓並行的首次建立只會留下一筆，且兩邊都拿得到該筆資料。
func (TagRepository) Upsert(ctx context.Context, q database.Querier, userID int, name string) (*model.Tag, bool, error) {
	t := &model.Tag{UserID: userID}
	var created bool
	err := q.QueryRow(ctx,
		`INSERT INTO tags (user_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, (xmax = 0) AS created`,
		userID,
		name,
	).Scan(&t.ID, &t.Name, &created)
	if err != nil {
		return nil, false, fmt.Errorf("UpsertTag: %w", err)
	}
	return t, created, nil
}

func (TagRepository) Get(ctx context.Context, q database.Querier, userID, id int) (*model.Tag, error) {
	t := &model.Tag{}
	err := q.QueryRow(ctx,
		`SELECT id, user_id, name FROM tags WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	).Scan(&t.ID, &t.UserID, &t.Name)
	if err != nil {
		return nil, fmt.Errorf("GetTag: %w", err)
	}
	return t, nil
}

func (TagRepository) ListByUser(ctx context.Context, q database.Querier, userID int) ([]model.Tag, error) {
	rows, err := q.Query(ctx,
		`SELECT id, user_id, name FROM tags WHERE user_id = $1 ORDER BY name DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	tags, err := collectTags(rows)
	if err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	return tags, nil
}

// ListAll 供管理報表使用
func (TagRepository) ListAll(ctx context.Context, q database.Querier) ([]model.Tag, error) {
	rows, err := q.Query(ctx, `SELECT id, user_id, name FROM tags ORDER BY user_id, name`)
	if err != nil {
		return nil, fmt.Errorf("ListAllTags: %w", err)
	}
	tags, err := collectTags(rows)
	if err != nil {
		return nil, fmt.Errorf("ListAllTags: %w", err)
	}
	return tags, nil
}

func (TagRepository) Rename(ctx context.Context, q database.Querier, userID, id int, name string) (*model.Tag, error) {
	t := &model.Tag{}
	err := q.QueryRow(ctx,
		`UPDATE tags SET name = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, name`,
		name,
		id,
		userID,
	).Scan(&t.ID, &t.UserID, &t.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("RenameTag: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("RenameTag: %w", err)
	}
	return t, nil
}

// Delete 移除 Tag；recipe_tags 透過 ON DELETE CASCADE 一併清除
func (TagRepository) Delete(ctx context.Context, q database.Querier, userID, id int) error {
	tag, err := q.Exec(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("DeleteTag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteTag: %w", pgx.ErrNoRows)
	}
	return nil
}

// ListForRecipes 一次載入多筆 recipe 的 tags，回傳 recipe_id → tags
func (TagRepository) ListForRecipes(ctx context.Context, q database.Querier, recipeIDs []int) (map[int][]model.Tag, error) {
	out := make(map[int][]model.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx,
		`SELECT rt.recipe_id, t.id, t.user_id, t.name
		 FROM recipe_tags rt
		 JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id = ANY($1)
		 ORDER BY t.name`,
		recipeIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("ListTagsForRecipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int
		var t model.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name); err != nil {
			return nil, fmt.Errorf("ListTagsForRecipes: %w", err)
		}
		out[recipeID] = append(out[recipeID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTagsForRecipes: %w", err)
	}
	return out, nil
}

func collectTags(rows pgx.Rows) ([]model.Tag, error) {
	defer rows.Close()
	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
