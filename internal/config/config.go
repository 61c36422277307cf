package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config 由環境變數載入；required 欄位缺少時 Load 回傳錯誤
type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`

	RedisAddr     string `env:"REDIS_ADDR" env-required:"true"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	JWTSecret       string        `env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"24h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"720h"`

	MediaRoot      string `env:"MEDIA_ROOT" env-default:"./media"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" env-default:"5242880"`

	WorkerCount int `env:"WORKER_COUNT" env-default:"1"`
	WorkerQueue int `env:"WORKER_QUEUE" env-default:"64"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"10"`
}

var godotenvLoad = godotenv.Load

// Load 先嘗試載入 .env (不存在時略過)，再以 cleanenv 讀取環境變數
func Load(envFiles ...string) (*Config, error) {
	var cfg Config
	if err := read(&cfg, envFiles); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseConfig 給只需要資料庫連線的管理指令使用
type DatabaseConfig struct {
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
}

func LoadDatabase(envFiles ...string) (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := read(&cfg, envFiles); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func read(cfg any, envFiles []string) error {
	if err := godotenvLoad(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return nil
}
