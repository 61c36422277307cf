// File: internal/model/tag.go
package model

// Tag 屬於單一使用者，(user_id, name) 唯一
type Tag struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
}
