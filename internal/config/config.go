package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// LoadEnvSettings reads the environment-derived settings defaults.
func LoadEnvSettings() (entity.Settings, error) {
	var s entity.Settings
	if err := envconfig.Process("RWASYNC", &s); err != nil {
		return entity.Settings{}, fmt.Errorf("failed to process settings from environment: %w", err)
	}
	if s.Network != "testnet" && s.Network != "public" {
		logrus.Warnf("Unknown network %q in environment, defaulting to testnet", s.Network)
		s.Network = "testnet"
	}
	return s, nil
}

// Config holds the server-side configuration loaded from the YAML file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Rpc      RpcConfig      `yaml:"rpc"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Executor ExecutorConfig `yaml:"executor"`
	Bridge   BridgeConfig   `yaml:"bridge"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// CacheConfig holds the fetcher cache configuration.
type CacheConfig struct {
	AssetsTTLSeconds    int `yaml:"assetsTtlSeconds"`
	PoolsTTLSeconds     int `yaml:"poolsTtlSeconds"`
	PositionsTTLSeconds int `yaml:"positionsTtlSeconds"`
	CleanupMinutes      int `yaml:"cleanupMinutes"`
}

// RpcConfig holds outbound RPC tuning.
type RpcConfig struct {
	RequestTimeoutMs         int64 `yaml:"requestTimeoutMs"`
	RateLimit                int   `yaml:"rateLimit"`
	BurstLimit               int   `yaml:"burstLimit"`
	ActivationTimeoutMs      int64 `yaml:"activationTimeoutMs"`
	ActivationPollIntervalMs int64 `yaml:"activationPollIntervalMs"`
}

// StoreConfig holds the local persistence configuration.
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// ExplorerConfig holds the block explorer link template.
type ExplorerConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// ExecutorConfig selects how chain mutations are carried out. Mode is
// either "mock" or "live".
type ExecutorConfig struct {
	Mode string `yaml:"mode"`
}

// BridgeConfig points at the browser companion agent proxying the wallet
// extension. Empty disables the extension signing method.
type BridgeConfig struct {
	URL string `yaml:"url"`
}

// LoadConfig loads the server configuration from a YAML file and applies
// defaults for anything not set.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, using defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Cache.AssetsTTLSeconds == 0 {
		cfg.Cache.AssetsTTLSeconds = 30
		logrus.Infof("AssetsTTLSeconds not set, defaulting to %d", cfg.Cache.AssetsTTLSeconds)
	}
	if cfg.Cache.PoolsTTLSeconds == 0 {
		cfg.Cache.PoolsTTLSeconds = 60
		logrus.Infof("PoolsTTLSeconds not set, defaulting to %d", cfg.Cache.PoolsTTLSeconds)
	}
	if cfg.Cache.PositionsTTLSeconds == 0 {
		cfg.Cache.PositionsTTLSeconds = 30
	}
	if cfg.Cache.CleanupMinutes == 0 {
		cfg.Cache.CleanupMinutes = 10
	}
	if cfg.Rpc.RequestTimeoutMs == 0 {
		cfg.Rpc.RequestTimeoutMs = 10000
		logrus.Infof("Rpc.RequestTimeoutMs not set, defaulting to %d ms", cfg.Rpc.RequestTimeoutMs)
	}
	if cfg.Rpc.RateLimit == 0 {
		cfg.Rpc.RateLimit = 10
	}
	if cfg.Rpc.BurstLimit == 0 {
		cfg.Rpc.BurstLimit = 20
	}
	if cfg.Rpc.ActivationTimeoutMs == 0 {
		cfg.Rpc.ActivationTimeoutMs = 10000
	}
	if cfg.Rpc.ActivationPollIntervalMs == 0 {
		cfg.Rpc.ActivationPollIntervalMs = 1000
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = "data"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Explorer.BaseURL == "" {
		cfg.Explorer.BaseURL = "https://stellar.expert/explorer/testnet"
	}
	if cfg.Executor.Mode == "" {
		cfg.Executor.Mode = "mock"
		logrus.Info("Executor mode not set, defaulting to mock")
	}
}
