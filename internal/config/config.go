// Package config loads application configuration from config.yaml and
// DEMOSYNC_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Sheets SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Roster RosterConfig `yaml:"roster" mapstructure:"roster"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the override store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SheetsConfig identifies the two source sheets and the API credentials.
type SheetsConfig struct {
	SpreadsheetID    string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Token            string `yaml:"token" mapstructure:"token"`
	APIBaseURL       string `yaml:"api_base_url" mapstructure:"api_base_url"`
	DemoSheetName    string `yaml:"demo_sheet_name" mapstructure:"demo_sheet_name"`
	DemoGID          string `yaml:"demo_gid" mapstructure:"demo_gid"`
	KitchenSheetName string `yaml:"kitchen_sheet_name" mapstructure:"kitchen_sheet_name"`
	KitchenGID       string `yaml:"kitchen_gid" mapstructure:"kitchen_gid"`
	WriteBack        bool   `yaml:"write_back" mapstructure:"write_back"`
}

// FetchConfig configures the strategy cascade.
type FetchConfig struct {
	StrategyTimeoutSecs int    `yaml:"strategy_timeout_secs" mapstructure:"strategy_timeout_secs"`
	UserAgent           string `yaml:"user_agent" mapstructure:"user_agent"`
}

// StrategyTimeout returns the per-strategy timeout as a duration.
func (f FetchConfig) StrategyTimeout() time.Duration {
	return time.Duration(f.StrategyTimeoutSecs) * time.Second
}

// RosterConfig points at an optional YAML roster override.
type RosterConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEMOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "demosync.db")
	// Empty defaults register the keys with viper so AutomaticEnv can
	// populate them; without a default an env-only key is invisible to
	// Unmarshal.
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.token", "")
	v.SetDefault("roster.path", "")
	v.SetDefault("sheets.api_base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("sheets.demo_sheet_name", "Demo Schedule")
	v.SetDefault("sheets.demo_gid", "0")
	v.SetDefault("sheets.kitchen_sheet_name", "Kitchen Requests")
	v.SetDefault("sheets.kitchen_gid", "1")
	v.SetDefault("sheets.write_back", false)
	v.SetDefault("fetch.strategy_timeout_secs", 15)
	v.SetDefault("fetch.user_agent", "demosync/1.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
