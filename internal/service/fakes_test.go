package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"recipe-app/internal/database"
	"recipe-app/internal/model"
	"recipe-app/internal/store"

	"github.com/jackc/pgx/v5"
)

// memTags 以記憶體模擬 tags 資料表與 (user_id, name) 唯一約束
type memTags struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]model.Tag
	links  map[int][]int // recipe_id → tag ids
	err    error
}

func newMemTags() *memTags {
	return &memTags{rows: map[int]model.Tag{}, links: map[int][]int{}}
}

func (m *memTags) Upsert(_ context.Context, _ database.Querier, userID int, name string) (*model.Tag, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	for _, t := range m.rows {
		if t.UserID == userID && t.Name == name {
			tag := t
			return &tag, false, nil
		}
	}
	m.nextID++
	t := model.Tag{ID: m.nextID, UserID: userID, Name: name}
	m.rows[t.ID] = t
	return &t, true, nil
}

func (m *memTags) Get(_ context.Context, _ database.Querier, userID, id int) (*model.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("GetTag: %w", pgx.ErrNoRows)
	}
	return &t, nil
}

func (m *memTags) ListByUser(_ context.Context, _ database.Querier, userID int) ([]model.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Tag{}
	for _, t := range m.rows {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, m.err
}

func (m *memTags) ListAll(context.Context, database.Querier) ([]model.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Tag{}
	for _, t := range m.rows {
		out = append(out, t)
	}
	return out, m.err
}

func (m *memTags) Rename(_ context.Context, _ database.Querier, userID, id int, name string) (*model.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("RenameTag: %w", pgx.ErrNoRows)
	}
	for _, o := range m.rows {
		if o.ID != id && o.UserID == userID && o.Name == name {
			return nil, fmt.Errorf("RenameTag: %w", store.ErrDuplicate)
		}
	}
	t.Name = name
	m.rows[id] = t
	return &t, nil
}

func (m *memTags) Delete(_ context.Context, _ database.Querier, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("DeleteTag: %w", pgx.ErrNoRows)
	}
	delete(m.rows, id)
	for rid, ids := range m.links {
		kept := ids[:0]
		for _, tid := range ids {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		m.links[rid] = kept
	}
	return nil
}

func (m *memTags) ListForRecipes(_ context.Context, _ database.Querier, recipeIDs []int) (map[int][]model.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int][]model.Tag{}
	for _, rid := range recipeIDs {
		for _, tid := range m.links[rid] {
			out[rid] = append(out[rid], m.rows[tid])
		}
	}
	return out, nil
}

func (m *memTags) countFor(userID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.rows {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// memRecipes 以記憶體模擬 recipes；SetTags 寫入共用的 memTags.links
type memRecipes struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]model.Recipe
	tags   *memTags

	createErr  error
	setTagsErr error
}

func newMemRecipes(tags *memTags) *memRecipes {
	return &memRecipes{rows: map[int]model.Recipe{}, tags: tags}
}

func (m *memRecipes) Create(_ context.Context, _ database.Querier, r *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	r.ID = m.nextID
	stored := *r
	stored.Tags = nil
	m.rows[r.ID] = stored
	return nil
}

func (m *memRecipes) get(userID, id int) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return nil, fmt.Errorf("GetRecipe: %w", pgx.ErrNoRows)
	}
	return &r, nil
}

func (m *memRecipes) Get(_ context.Context, _ database.Querier, userID, id int) (*model.Recipe, error) {
	return m.get(userID, id)
}

func (m *memRecipes) GetForUpdate(_ context.Context, _ database.Querier, userID, id int) (*model.Recipe, error) {
	return m.get(userID, id)
}

func (m *memRecipes) ListByUser(_ context.Context, _ database.Querier, userID int) ([]model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Recipe{}
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRecipes) ListAll(context.Context, database.Querier) ([]model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Recipe{}
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRecipes) Update(_ context.Context, _ database.Querier, r *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[r.ID]
	if !ok || cur.UserID != r.UserID {
		return fmt.Errorf("UpdateRecipe: %w", pgx.ErrNoRows)
	}
	stored := *r
	stored.Tags = nil
	m.rows[r.ID] = stored
	return nil
}

func (m *memRecipes) Delete(_ context.Context, _ database.Querier, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return fmt.Errorf("DeleteRecipe: %w", pgx.ErrNoRows)
	}
	delete(m.rows, id)
	m.tags.mu.Lock()
	delete(m.tags.links, id)
	m.tags.mu.Unlock()
	return nil
}

func (m *memRecipes) SetTags(_ context.Context, _ database.Querier, recipeID int, tagIDs []int) error {
	if m.setTagsErr != nil {
		return m.setTagsErr
	}
	m.tags.mu.Lock()
	defer m.tags.mu.Unlock()
	m.tags.links[recipeID] = append([]int(nil), tagIDs...)
	return nil
}

type countingRecorder struct {
	mu      sync.Mutex
	tags    int
	recipes int
}

func (c *countingRecorder) TagCreated() {
	c.mu.Lock()
	c.tags++
	c.mu.Unlock()
}

func (c *countingRecorder) RecipeCreated() {
	c.mu.Lock()
	c.recipes++
	c.mu.Unlock()
}
