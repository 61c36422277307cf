package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	"recipe-app/internal/database"
	"recipe-app/internal/logger"
	"recipe-app/internal/media"
	"recipe-app/internal/model"
	"recipe-app/internal/store"

	"github.com/jackc/pgx/v5"
)

var (
	createUserRow      = store.CreateUser
	getUserByID        = store.GetUserByID
	getUserByEmail     = store.GetUserByEmail
	updateUserRow      = store.UpdateUser
	updateUserPassword = store.UpdateUserPassword
	updateUserImage    = store.UpdateUserImage
	touchLastLogin     = store.TouchLastLogin
	listUsers          = store.ListUsers
)

// NewUser 為建立帳號的輸入；signup 與 createsuperuser 共用
type NewUser struct {
	Email       string
	Password    string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// ProfileUpdate 的 nil 欄位代表不更新
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// ImageStore 儲存上傳圖片，由 internal/media 實作
type ImageStore interface {
	Save(r io.Reader) (*media.Image, error)
	Delete(path string) error
}

func validateEmail(email string) (string, *ValidationError) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", fieldError("email", "this field may not be blank")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fieldError("email", "enter a valid email address")
	}
	return email, nil
}

// RegisterUser 正規化 email、檢查密碼長度並以 bcrypt 儲存；明文密碼不會被保存
func RegisterUser(ctx context.Context, db database.Querier, in NewUser) (*model.User, error) {
	fields := map[string]string{}
	email, verr := validateEmail(in.Email)
	if verr != nil {
		fields["email"] = verr.Fields["email"]
	}
	if verr := validatePassword(in.Password); verr != nil {
		fields["password"] = verr.Fields["password"]
	}
	if tooLong(in.Name) {
		fields["name"] = "ensure this field has no more than 255 characters"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := createUserRow(ctx, db, &model.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fieldError("email", "user with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate 驗證 email/密碼；任何失敗一律回傳 ErrInvalidCredentials
func Authenticate(ctx context.Context, db database.Querier, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := getUserByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := touchLastLogin(ctx, db, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func GetUser(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	user, err := getUserByID(ctx, db, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// GetActiveUser 供 refresh token 與驗證中介層使用；停用帳號視為無效 token
func GetActiveUser(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func ListUsers(ctx context.Context, db database.Querier) ([]model.User, error) {
	users, err := listUsers(ctx, db)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// UpdateProfile 在同一交易中更新 name/email 與密碼
func UpdateProfile(ctx context.Context, db database.DB, userID int, in ProfileUpdate) (*model.User, error) {
	fields := map[string]string{}
	var email string
	if in.Email != nil {
		var verr *ValidationError
		if email, verr = validateEmail(*in.Email); verr != nil {
			fields["email"] = verr.Fields["email"]
		}
	}
	if in.Password != nil {
		if verr := validatePassword(*in.Password); verr != nil {
			fields["password"] = verr.Fields["password"]
		}
	}
	if in.Name != nil && tooLong(*in.Name) {
		fields["name"] = "ensure this field has no more than 255 characters"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var user *model.User
	err := database.WithTx(ctx, db, func(q database.Querier) error {
		var err error
		if user, err = getUserByID(ctx, q, userID); err != nil {
			return notFound(err)
		}
		if in.Email != nil {
			user.Email = email
		}
		if in.Name != nil {
			user.Name = strings.TrimSpace(*in.Name)
		}
		if err := updateUserRow(ctx, q, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fieldError("email", "user with this email already exists")
			}
			return notFound(err)
		}
		if in.Password != nil {
			hash, err := HashPassword(*in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err := updateUserPassword(ctx, q, userID, hash); err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ReplaceProfileImage 儲存新圖片並更新使用者；舊檔案在更新成功後才刪除
func ReplaceProfileImage(ctx context.Context, db database.Querier, images ImageStore, userID int, r io.Reader) (*model.User, error) {
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	img, err := images.Save(r)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			return nil, fieldError("image", "upload a valid image; the file was either not an image or a corrupted image")
		}
		return nil, err
	}

	if err := updateUserImage(ctx, db, userID, img.Path, img.BlurHash); err != nil {
		if derr := images.Delete(img.Path); derr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned image", slog.String("path", img.Path), logger.Err(derr))
		}
		return nil, err
	}

	if old := user.Image; old != nil && *old != "" && *old != img.Path {
		if err := images.Delete(*old); err != nil {
			slog.WarnContext(ctx, "failed to remove previous image", slog.String("path", *old), logger.Err(err))
		}
	}

	user.Image = &img.Path
	user.ImageBlurHash = nil
	if img.BlurHash != "" {
		user.ImageBlurHash = &img.BlurHash
	}
	return user, nil
}
