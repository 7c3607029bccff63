// Package config loads tooling settings from the environment.
package config

import (
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config holds the settings of the groqcat tool.
type Config struct {
	DBPath       string `env:"GROQCAT_DB_PATH" envDefault:"groqcat.db"`
	LogLevel     string `env:"GROQCAT_LOG_LEVEL" envDefault:"info"`
	LogJSON      bool   `env:"GROQCAT_LOG_JSON" envDefault:"false"`
	RelatedLimit int    `env:"GROQCAT_RELATED_LIMIT" envDefault:"4"`
	SearchLimit  int    `env:"GROQCAT_SEARCH_LIMIT" envDefault:"20"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if cfg.RelatedLimit <= 0 {
		return Config{}, errors.Errorf("GROQCAT_RELATED_LIMIT must be positive, got %d", cfg.RelatedLimit)
	}
	if cfg.SearchLimit <= 0 {
		return Config{}, errors.Errorf("GROQCAT_SEARCH_LIMIT must be positive, got %d", cfg.SearchLimit)
	}
	return cfg, nil
}

// Logger builds the zerolog logger described by the config, writing to w
// (stderr when nil).
func (c Config) Logger(w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	if !c.LogJSON {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
