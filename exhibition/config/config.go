package config

import (
	"fmt"
	"path/filepath"

	internal "github.com/EvelinyStark/vides-makslas-sarunas/exhibition"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Exhibition ExhibitionConfig `mapstructure:"exhibition"`
}

// ExhibitionConfig stores the installation-specific settings.
type ExhibitionConfig struct {
	// APIKey is the shared secret required by every mutating endpoint.
	APIKey       string         `mapstructure:"api_key"`
	ListenAddr   string         `mapstructure:"listen_addr"`
	Database     DatabaseConfig `mapstructure:"database"`
	HistoryLimit int            `mapstructure:"history_limit"`
	Log          LogConfig      `mapstructure:"log"`
}

// DatabaseConfig stores the embedded database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig stores logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("exhibition.api_key", "")
	v.SetDefault("exhibition.listen_addr", internal.DefaultListenAddr)
	v.SetDefault("exhibition.database.path", internal.DefaultDatabasePath)
	v.SetDefault("exhibition.history_limit", internal.DefaultHistoryLimit)
	v.SetDefault("exhibition.log.level", "info")
	v.SetDefault("exhibition.log.pretty", false)

	// The deployment environment configures the service through plain
	// variables rather than a config file.
	v.AutomaticEnv()
	_ = v.BindEnv("exhibition.api_key", "API_KEY")
	_ = v.BindEnv("exhibition.listen_addr", "LISTEN_ADDR")
	_ = v.BindEnv("exhibition.database.path", "DATABASE_PATH")
	_ = v.BindEnv("exhibition.log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine, defaults and env cover everything.
	}

	// PORT is how the hosting platform hands us a listen port.
	if port := v.GetString("PORT"); port != "" {
		v.Set("exhibition.listen_addr", ":"+port)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Exhibition.HistoryLimit <= 0 {
		cfg.Exhibition.HistoryLimit = internal.DefaultHistoryLimit
	}
	cfg.Exhibition.Database.Path = filepath.Clean(cfg.Exhibition.Database.Path)

	return &cfg, nil
}
