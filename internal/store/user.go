package store

import (
	"context"
	"fmt"

	"recipe-app/internal/database"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser,
		        image, image_blur_hash, last_login, created_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.Image,
		&u.ImageBlurHash,
		&u.LastLogin,
		&u.CreatedAt,
	)
}

func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users WHERE id = $1`,
		userID,
	)
	u := &model.User{}
	if err := scanUser(row, u); err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users WHERE email = $1`,
		email,
	)
	u := &model.User{}
	if err := scanUser(row, u); err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, is_active, is_staff, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.IsActive,
		u.IsStaff,
		u.IsSuperuser,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("CreateUser: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func UpdateUser(ctx context.Context, db database.Querier, u *model.User) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET name = $1, email = $2
		 WHERE id = $3`,
		u.Name,
		u.Email,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("UpdateUser: %w", ErrDuplicate)
		}
		return fmt.Errorf("UpdateUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUser: %w", pgx.ErrNoRows)
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db database.Querier, userID int, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	return nil
}

func UpdateUserImage(ctx context.Context, db database.Querier, userID int, image, blurHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET image = $1, image_blur_hash = NULLIF($2, '')
		 WHERE id = $3`,
		image,
		blurHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserImage: %w", err)
	}
	return nil
}

func TouchLastLogin(ctx context.Context, db database.Querier, userID int) error {
	_, err := db.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("TouchLastLogin: %w", err)
	}
	return nil
}

// ListUsers 供管理報表使用，依 id 排序
func ListUsers(ctx context.Context, db database.Querier) ([]model.User, error) {
	rows, err := db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}
