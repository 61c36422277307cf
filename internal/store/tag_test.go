package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-app/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestTagRepository(t *testing.T) {
	ctx := context.Background()
	repo := TagRepository{}

	t.Run("Upsert created", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "ON CONFLICT (user_id, name)")
			require.Equal(t, []any{3, "Vegan"}, args)
			return &fakeRow{vals: []any{11, "Vegan", true}}
		}}
		tag, created, err := repo.Upsert(ctx, db, 3, "Vegan")
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, 11, tag.ID)
		require.Equal(t, 3, tag.UserID)
	})

	t.Run("Upsert existing", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{vals: []any{11, "Vegan", false}}
		}}
		_, created, err := repo.Upsert(ctx, db, 3, "Vegan")
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("Upsert error", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: errors.New("boom")}
		}}
		_, _, err := repo.Upsert(ctx, db, 3, "Vegan")
		require.Error(t, err)
	})

	t.Run("Get scoped to user", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "user_id = $2")
			require.Equal(t, []any{11, 3}, args)
			return &fakeRow{scanErr: pgx.ErrNoRows}
		}}
		_, err := repo.Get(ctx, db, 3, 11)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("ListByUser ordered by name desc", func(t *testing.T) {
		db := &database.FakeDB{QueryFn: func(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "ORDER BY name DESC")
			return &fakeRows{data: [][]any{{2, 3, "Vegan"}, {1, 3, "Dessert"}}}, nil
		}}
		tags, err := repo.ListByUser(ctx, db, 3)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		require.Equal(t, "Vegan", tags[0].Name)
	})

	t.Run("ListByUser empty is not nil", func(t *testing.T) {
		db := &database.FakeDB{QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{}, nil
		}}
		tags, err := repo.ListByUser(ctx, db, 3)
		require.NoError(t, err)
		require.NotNil(t, tags)
		require.Empty(t, tags)
	})

	t.Run("list errors", func(t *testing.T) {
		db := &database.FakeDB{QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
			return nil, errors.New("query")
		}}
		_, err := repo.ListByUser(ctx, db, 3)
		require.Error(t, err)
		_, err = repo.ListAll(ctx, db)
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{data: [][]any{{1, 3, "x"}}, scanErr: errors.New("scan")}, nil
		}
		_, err = repo.ListAll(ctx, db)
		require.Error(t, err)
	})

	t.Run("Rename", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{vals: []any{11, 3, "Keto"}}
		}}
		tag, err := repo.Rename(ctx, db, 3, 11, "Keto")
		require.NoError(t, err)
		require.Equal(t, "Keto", tag.Name)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: &pgconn.PgError{Code: "23505"}}
		}
		_, err = repo.Rename(ctx, db, 3, 11, "Keto")
		require.ErrorIs(t, err, ErrDuplicate)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: pgx.ErrNoRows}
		}
		_, err = repo.Rename(ctx, db, 3, 11, "Keto")
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("Delete", func(t *testing.T) {
		db := &database.FakeDB{ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return affected(1), nil
		}}
		require.NoError(t, repo.Delete(ctx, db, 3, 11))

		db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return affected(0), nil
		}
		require.ErrorIs(t, repo.Delete(ctx, db, 3, 11), pgx.ErrNoRows)

		db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("boom")
		}
		require.Error(t, repo.Delete(ctx, db, 3, 11))
	})

	t.Run("ListForRecipes", func(t *testing.T) {
		got, err := repo.ListForRecipes(ctx, &database.FakeDB{}, nil)
		require.NoError(t, err)
		require.Empty(t, got)

		db := &database.FakeDB{QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.True(t, strings.Contains(sql, "ANY($1)"))
			require.Equal(t, []any{[]int{1, 2}}, args)
			return &fakeRows{data: [][]any{
				{1, 10, 3, "A"},
				{1, 11, 3, "B"},
				{2, 10, 3, "A"},
			}}, nil
		}}
		got, err = repo.ListForRecipes(ctx, db, []int{1, 2})
		require.NoError(t, err)
		require.Len(t, got[1], 2)
		require.Len(t, got[2], 1)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{err: errors.New("rows")}, nil
		}
		_, err = repo.ListForRecipes(ctx, db, []int{1})
		require.Error(t, err)
	})
}
