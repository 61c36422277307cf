// File: internal/model/user.go
package model

import "time"

type User struct {
	ID            int        `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	Name          string     `db:"name" json:"name"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	IsStaff       bool       `db:"is_staff" json:"is_staff"`
	IsSuperuser   bool       `db:"is_superuser" json:"is_superuser"`
	Image         *string    `db:"image" json:"image"`
	ImageBlurHash *string    `db:"image_blur_hash" json:"image_blur_hash,omitempty"`
	LastLogin     *time.Time `db:"last_login" json:"last_login"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
