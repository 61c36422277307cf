package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"recipe-app/internal/cache"
	"recipe-app/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	randRead = rand.Read
	jsonMarshal = json.Marshal
	jsonUnmarshal = json.Unmarshal
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))
	require.Error(t, ComparePassword(hash, "other"))

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestIssueAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, err := NewTokenService("", time.Minute, time.Hour, nil).IssueAccessToken(model.User{})
	require.Error(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	s := NewTokenService("s", time.Minute, time.Hour, nil)
	tok, err := s.IssueAccessToken(model.User{ID: 5, IsStaff: true})
	require.NoError(t, err)

	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil },
		jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	require.Equal(t, 5, claims.UserID)
	require.True(t, claims.IsStaff)
	require.Equal(t, "5", claims.Subject)
	require.Equal(t, now.Add(time.Minute), claims.ExpiresAt.Time)
	require.Equal(t, time.Minute, s.AccessTTL())
}

func TestVerifyAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, err := NewTokenService("", time.Minute, time.Hour, nil).VerifyAccessToken("abc")
	require.Error(t, err)

	s := NewTokenService("s", time.Minute, time.Hour, nil)
	_, err = s.VerifyAccessToken("invalid")
	require.ErrorIs(t, err, ErrInvalidToken)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = s.VerifyAccessToken(tokNone)
	require.ErrorIs(t, err, ErrInvalidToken)

	other, _ := NewTokenService("other", time.Minute, time.Hour, nil).IssueAccessToken(model.User{ID: 1})
	_, err = s.VerifyAccessToken(other)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenService("s", -time.Minute, time.Hour, nil)
	tokExpired, _ := expired.IssueAccessToken(model.User{ID: 1})
	_, err = s.VerifyAccessToken(tokExpired)
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = s.VerifyAccessToken("whatever")
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = jwt.ParseWithClaims
	tok, _ := s.IssueAccessToken(model.User{ID: 3})
	claims, err := s.VerifyAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, 3, claims.UserID)
}

func TestIssueRefreshToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c := &cache.FakeCache{}
	s := NewTokenService("s", time.Minute, time.Hour, c)

	randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
	_, err := s.IssueRefreshToken(ctx, model.User{ID: 1})
	require.Error(t, err)

	randRead = rand.Read
	jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("json") }
	_, err = s.IssueRefreshToken(ctx, model.User{ID: 1})
	require.Error(t, err)

	jsonMarshal = json.Marshal
	c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
		return redis.NewStatusResult("", errors.New("set"))
	}
	_, err = s.IssueRefreshToken(ctx, model.User{ID: 1})
	require.Error(t, err)

	var storedKey string
	var storedVal []byte
	var storedTTL time.Duration
	c.SetFn = func(_ context.Context, key string, val any, ttl time.Duration) *redis.StatusCmd {
		storedKey = key
		storedVal = val.([]byte)
		storedTTL = ttl
		return redis.NewStatusResult("OK", nil)
	}
	tok, err := s.IssueRefreshToken(ctx, model.User{ID: 1, IsStaff: true})
	require.NoError(t, err)
	require.Equal(t, refreshKeyPrefix+tok, storedKey)
	require.Equal(t, time.Hour, storedTTL)
	decoded, _ := base64.RawURLEncoding.DecodeString(tok)
	require.Len(t, decoded, 32)
	var d RefreshTokenData
	require.NoError(t, json.Unmarshal(storedVal, &d))
	require.Equal(t, 1, d.UserID)
	require.True(t, d.IsStaff)
}

func TestValidateRefreshToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c := &cache.FakeCache{}
	s := NewTokenService("s", time.Minute, time.Hour, c)

	_, err := s.ValidateRefreshToken(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	c.GetFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("", redis.Nil)
	}
	_, err = s.ValidateRefreshToken(ctx, "tok")
	require.ErrorIs(t, err, ErrInvalidToken)

	c.GetFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("", errors.New("down"))
	}
	_, err = s.ValidateRefreshToken(ctx, "tok")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidToken)

	c.GetFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("{bad", nil)
	}
	_, err = s.ValidateRefreshToken(ctx, "tok")
	require.Error(t, err)

	c.GetFn = func(_ context.Context, key string) *redis.StringCmd {
		require.Equal(t, refreshKeyPrefix+"tok", key)
		return redis.NewStringResult(`{"user_id":7,"is_staff":false}`, nil)
	}
	d, err := s.ValidateRefreshToken(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, 7, d.UserID)
}

func TestRevokeRefreshToken(t *testing.T) {
	ctx := context.Background()
	c := &cache.FakeCache{}
	s := NewTokenService("s", time.Minute, time.Hour, c)

	c.DelFn = func(_ context.Context, keys ...string) *redis.IntCmd {
		require.Equal(t, []string{refreshKeyPrefix + "tok"}, keys)
		return redis.NewIntResult(1, nil)
	}
	require.NoError(t, s.RevokeRefreshToken(ctx, "tok"))

	c.DelFn = func(context.Context, ...string) *redis.IntCmd {
		return redis.NewIntResult(0, errors.New("down"))
	}
	require.Error(t, s.RevokeRefreshToken(ctx, "tok"))
}
