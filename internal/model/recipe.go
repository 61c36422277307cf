// File: internal/model/recipe.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe 的 Tags 只會包含與 UserID 相同擁有者的 Tag
type Recipe struct {
	ID          int             `db:"id" json:"id"`
	UserID      int             `db:"user_id" json:"user_id"`
	Title       string          `db:"title" json:"title"`
	TimeMinutes int             `db:"time_minutes" json:"time_minutes"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
	Link        string          `db:"link" json:"link"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	Tags        []Tag           `db:"-" json:"tags"`
}
