package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/slatepos/slate/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Backend   sharedConfig.BackendConfig   `mapstructure:"backend"`
	Hub       sharedConfig.HubConfig       `mapstructure:"hub"`
	Transport sharedConfig.TransportConfig `mapstructure:"transport"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if path != "" {
		viper.AddConfigPath(path)
	}
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")

	viper.SetEnvPrefix("SLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env cover first boot.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults (hub listener, POS role only)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8765)
	viper.SetDefault("server.mode", "release")

	// Database defaults
	viper.SetDefault("database.path", "slate.db")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Backend defaults
	viper.SetDefault("backend.base_url", "")
	viper.SetDefault("backend.request_timeout_secs", 30)
	viper.SetDefault("backend.probe_timeout_secs", 3)

	// Hub defaults
	viper.SetDefault("hub.write_wait_secs", 10)
	viper.SetDefault("hub.pong_wait_secs", 60)
	viper.SetDefault("hub.ping_period_secs", 30)

	// Transport defaults
	viper.SetDefault("transport.hub_url", "")
	viper.SetDefault("transport.max_reconnect_attempts", 5)
	viper.SetDefault("transport.reconnect_delay_ms", 3000)
	viper.SetDefault("transport.handshake_timeout_secs", 10)
}
