package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNotFound 表示資料不存在或不屬於目前使用者，兩者不做區分
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials 表示 email/密碼錯誤或帳號停用
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	// ErrInvalidToken 表示 access 或 refresh token 無效或過期
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ValidationError 收集欄位層級的錯誤訊息，key 為 JSON 欄位名稱
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// notFound 把 store 層的 pgx.ErrNoRows 轉為 ErrNotFound，其餘錯誤原樣回傳
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
