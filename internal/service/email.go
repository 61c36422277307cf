package service

import "strings"

// NormalizeEmail 只把 domain 轉為小寫，local part 保持原樣
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}
