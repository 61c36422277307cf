package api

import "recipe-app/internal/model"

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"test@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"testpass123"`
	Name     string `json:"name" form:"name" validate:"max=255" example:"Test Name"`
}

// swagger:model api.ReplaceMeRequest
type ReplaceMeRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"test@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"newpass123"`
	Name     string `json:"name" form:"name" validate:"max=255" example:"Updated Name"`
}

// UpdateMeRequest 為 PATCH；未提供的欄位不變
// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	Email    *string `json:"email" form:"email" validate:"omitempty,email" example:"test@example.com"`
	Password *string `json:"password" form:"password" example:"newpass123"`
	Name     *string `json:"name" form:"name" validate:"omitempty,max=255" example:"Updated Name"`
}

// swagger:model api.UserResponse
type UserResponse struct {
	Email string  `json:"email" example:"test@example.com"`
	Name  string  `json:"name" example:"Test Name"`
	Image *string `json:"image" example:"/media/uploads/user/3f0c1f3e.jpg"`
}

// swagger:model api.TokenRequest
type TokenRequest struct {
	Email    string `json:"email" form:"email" example:"test@example.com"`
	Password string `json:"password" form:"password" example:"testpass123"`
}

// swagger:model api.TokenResponse
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in" example:"86400"`
}

// swagger:model api.RefreshTokenRequest
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

// swagger:model api.ImageResponse
type ImageResponse struct {
	ID       int    `json:"id" example:"1"`
	Image    string `json:"image" example:"/media/uploads/user/3f0c1f3e.jpg"`
	BlurHash string `json:"blur_hash,omitempty" example:"LEHV6nWB2yk8pyo0adR*.7kCMdnj"`
}

// swagger:model api.AdminUserResponse
type AdminUserResponse struct {
	ID          int     `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	IsActive    bool    `json:"is_active"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
	LastLogin   *string `json:"last_login"`
}

// MediaURL 把儲存在資料庫的相對路徑轉為對外 URL
func MediaURL(path string) string {
	return "/media/" + path
}

func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{Email: u.Email, Name: u.Name}
	if u.Image != nil && *u.Image != "" {
		url := MediaURL(*u.Image)
		resp.Image = &url
	}
	return resp
}

func NewAdminUserResponse(u model.User) AdminUserResponse {
	resp := AdminUserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
	if u.LastLogin != nil {
		ts := u.LastLogin.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.LastLogin = &ts
	}
	return resp
}
