package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/playperu/pittrivia/internal/game"
	"github.com/playperu/pittrivia/internal/round"
)

type Config struct {
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath           string        `env:"DB_PATH" envDefault:"data/pittrivia.db"`
	RedisURL         string        `env:"REDIS_URL"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"5m"`
	LogLevel         slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	DefaultLanguage  string        `env:"DEFAULT_LANGUAGE" envDefault:"ar"`

	QuestionTicks   int           `env:"QUESTION_TICKS" envDefault:"30"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	GraceDelay      time.Duration `env:"GRACE_DELAY" envDefault:"500ms"`
	PitUnlockSolved int           `env:"PIT_UNLOCK_SOLVED" envDefault:"4"`
	BoardCategories int           `env:"BOARD_CATEGORIES" envDefault:"6"`

	// AdminPasswordHash is a bcrypt hash. Empty disables the admin API.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	SeedDefaults      bool   `env:"SEED_DEFAULTS" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.QuestionTicks < 0:
		return fmt.Errorf("QUESTION_TICKS must not be negative, got %d", c.QuestionTicks)
	case c.TickInterval <= 0:
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	case c.GraceDelay < 0:
		return fmt.Errorf("GRACE_DELAY must not be negative, got %s", c.GraceDelay)
	case c.BoardCategories < 1:
		return fmt.Errorf("BOARD_CATEGORIES must be at least 1, got %d", c.BoardCategories)
	}
	return nil
}

// GameSettings maps the configuration onto the game rules.
func (c Config) GameSettings() game.Settings {
	return game.Settings{
		Rules: round.Rules{
			QuestionTicks:   c.QuestionTicks,
			PitUnlockSolved: c.PitUnlockSolved,
		},
		TickInterval:    c.TickInterval,
		GraceDelay:      c.GraceDelay,
		BoardCategories: c.BoardCategories,
	}
}
