package config

import (
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/blueye/globalsite/internal/lifestyle"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.NavSettle != 2*time.Second || cfg.QuizRoundHold != time.Second {
		t.Errorf("timings = %s, %s", cfg.NavSettle, cfg.QuizRoundHold)
	}
	if cfg.QuizRoundWeighting != lifestyle.WeightByPickPairs {
		t.Errorf("weighting = %s", cfg.QuizRoundWeighting)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("QUIZ_ROUND_WEIGHTING", "bracket-round")
	t.Setenv("CORS_ORIGINS", "https://blueye.kr,https://www.blueye.kr")
	t.Setenv("GLOBE_FRAME_INTERVAL", "33ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %s", cfg.LogLevel)
	}
	if cfg.QuizRoundWeighting != lifestyle.WeightByBracketRound {
		t.Errorf("weighting = %s", cfg.QuizRoundWeighting)
	}
	if !slices.Equal(cfg.CORSOrigins, []string{"https://blueye.kr", "https://www.blueye.kr"}) {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.GlobeFrameInterval != 33*time.Millisecond {
		t.Errorf("frame interval = %s", cfg.GlobeFrameInterval)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LOGIN_RATE_LIMIT", "0"},
		{"GLOBE_FRAME_INTERVAL", "0s"},
		{"QUIZ_ROUND_WEIGHTING", "random"},
		{"NAV_SETTLE", "soon"},
		{"QUIZ_SESSION_TTL", "0s"},
		{"QUIZ_SESSION_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s: expected error", tt.key, tt.value)
			}
		})
	}
}
