package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/blueye/globalsite/internal/lifestyle"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/globalsite.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// RedisURL selects the Redis quiz session store. Empty keeps sessions
	// in memory.
	RedisURL string `env:"REDIS_URL"`

	// AdminEmail and AdminPasswordHash seed the first admin account when
	// the admins table is empty. The hash is a bcrypt hash.
	AdminEmail        string `env:"ADMIN_EMAIL" envDefault:"admin@blueye.kr"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	QuizRoundHold      time.Duration       `env:"QUIZ_ROUND_HOLD" envDefault:"1s"`
	QuizSessionTTL     time.Duration       `env:"QUIZ_SESSION_TTL" envDefault:"24h"`
	QuizRoundWeighting lifestyle.Weighting `env:"QUIZ_ROUND_WEIGHTING" envDefault:"pick-pairs"`

	NavSettle          time.Duration `env:"NAV_SETTLE" envDefault:"2s"`
	GlobeFrameInterval time.Duration `env:"GLOBE_FRAME_INTERVAL" envDefault:"16ms"`

	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`
	LoginRateLimit int      `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.LoginRateLimit < 1 {
		return nil, fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", cfg.LoginRateLimit)
	}
	if cfg.GlobeFrameInterval <= 0 {
		return nil, fmt.Errorf("GLOBE_FRAME_INTERVAL must be positive, got %s", cfg.GlobeFrameInterval)
	}
	if cfg.QuizSessionTTL <= 0 {
		return nil, fmt.Errorf("QUIZ_SESSION_TTL must be positive, got %s", cfg.QuizSessionTTL)
	}
	return &cfg, nil
}
