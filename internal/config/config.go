// Package config loads gen3ctl settings from the environment. Command-line
// flags override these values in cmd/gen3ctl.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/joshuapare/gen3kit/internal/logger"
)

// Config holds environment-driven defaults.
type Config struct {
	RomsDir  string `env:"GEN3KIT_ROMS_DIR"`
	SavesDir string `env:"GEN3KIT_SAVES_DIR"`
	// Catalog is an extra YAML catalog merged over the bundled one.
	Catalog  string `env:"GEN3KIT_CATALOG"`
	LogLevel string `env:"GEN3KIT_LOG_LEVEL" envDefault:"warn"`
	LogJSON  bool   `env:"GEN3KIT_LOG_JSON"`
	LogFile  bool   `env:"GEN3KIT_LOG_FILE"`
	Backup   bool   `env:"GEN3KIT_BACKUP"    envDefault:"true"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.RomsDir = expandHome(cfg.RomsDir)
	cfg.SavesDir = expandHome(cfg.SavesDir)
	cfg.Catalog = expandHome(cfg.Catalog)
	return cfg, nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level { return logger.ParseLevel(c.LogLevel) }

// LoggerOptions maps the config onto logger.Init options. Output goes to w
// unless LogFile is set, in which case the dated file under the default
// log directory is used.
func (c Config) LoggerOptions(w io.Writer) logger.Options {
	opts := logger.Options{Enabled: true, Level: c.Level(), JSON: c.LogJSON}
	if !c.LogFile {
		opts.Writer = w
	}
	return opts
}

func expandHome(p string) string {
	if len(p) < 2 || p[:2] != "~/" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
