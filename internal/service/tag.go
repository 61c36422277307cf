package service

import (
	"context"
	"errors"
	"strings"

	"recipe-app/internal/database"
	"recipe-app/internal/model"
	"recipe-app/internal/store"
)

type TagService struct {
	db      database.DB
	tags    TagRepository
	metrics Recorder
}

func NewTagService(db database.DB, tags TagRepository, metrics Recorder) *TagService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &TagService{db: db, tags: tags, metrics: metrics}
}

// List 回傳使用者自己的 tags，依名稱反序
func (s *TagService) List(ctx context.Context, userID int) ([]model.Tag, error) {
	return s.tags.ListByUser(ctx, s.db, userID)
}

func (s *TagService) ListAll(ctx context.Context) ([]model.Tag, error) {
	return s.tags.ListAll(ctx, s.db)
}

func (s *TagService) Get(ctx context.Context, userID, id int) (*model.Tag, error) {
	t, err := s.tags.Get(ctx, s.db, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Create 與 recipe 寫入路徑相同的 create-if-absent 語意；created 表示是否新增
func (s *TagService) Create(ctx context.Context, userID int, name string) (*model.Tag, bool, error) {
	if msg := validateTagName(name); msg != "" {
		return nil, false, fieldError("name", msg)
	}
	t, created, err := s.tags.Upsert(ctx, s.db, userID, strings.TrimSpace(name))
	if err != nil {
		return nil, false, err
	}
	if created {
		s.metrics.TagCreated()
	}
	return t, created, nil
}

func (s *TagService) Rename(ctx context.Context, userID, id int, name string) (*model.Tag, error) {
	if msg := validateTagName(name); msg != "" {
		return nil, fieldError("name", msg)
	}
	t, err := s.tags.Rename(ctx, s.db, userID, id, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fieldError("name", "tag with this name already exists")
		}
		return nil, notFound(err)
	}
	return t, nil
}

// Delete 只移除 tag 與其關聯，recipes 不受影響
func (s *TagService) Delete(ctx context.Context, userID, id int) error {
	if err := s.tags.Delete(ctx, s.db, userID, id); err != nil {
		return notFound(err)
	}
	return nil
}
