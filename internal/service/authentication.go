package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"recipe-app/internal/cache"
	"recipe-app/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

const refreshKeyPrefix = "refresh_token:"

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID  int  `json:"user_id"`
	IsStaff bool `json:"is_staff"`
	jwt.RegisteredClaims
}

// RefreshTokenData 為 refresh token 存在 Redis 中的內容
type RefreshTokenData struct {
	UserID  int  `json:"user_id"`
	IsStaff bool `json:"is_staff"`
}

// TokenService 簽發 HS256 access token 與存放於 Redis 的 refresh token
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	cache      cache.Cache
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, c cache.Cache) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		cache:      c,
	}
}

func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// IssueAccessToken 依據使用者資訊產生 JWT
func (s *TokenService) IssueAccessToken(user model.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID:  user.ID,
		IsStaff: user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func (s *TokenService) VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueRefreshToken 產生 32 bytes 隨機 token (base64url)，以 TTL 存入 Redis
func (s *TokenService) IssueRefreshToken(ctx context.Context, user model.User) (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	payload, err := jsonMarshal(RefreshTokenData{UserID: user.ID, IsStaff: user.IsStaff})
	if err != nil {
		return "", fmt.Errorf("encode refresh token: %w", err)
	}
	if err := s.cache.Set(ctx, refreshKeyPrefix+token, payload, s.refreshTTL).Err(); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// ValidateRefreshToken 查詢 Redis；不存在或過期回傳 ErrInvalidToken
func (s *TokenService) ValidateRefreshToken(ctx context.Context, token string) (*RefreshTokenData, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	raw, err := s.cache.Get(ctx, refreshKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}

	var data RefreshTokenData
	if err := jsonUnmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}
	return &data, nil
}

// RevokeRefreshToken 刪除 refresh token，使其無法再次使用
func (s *TokenService) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := s.cache.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
