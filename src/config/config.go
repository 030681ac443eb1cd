// Package config provides configuration management for the drone-stats tool.
//
// Precedence, lowest to highest: built-in defaults, the optional
// drone-stats.yaml file, environment variables. A .env file in the working
// directory is loaded into the environment first if present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultCacheDir    = "cache"
	defaultKafkaTopic  = "drone.build.stats"
	defaultHTTPTimeout = 30 * time.Second

	// ConfigFileEnv overrides the path of the YAML config file.
	ConfigFileEnv = "DRONE_STATS_CONFIG"

	defaultConfigFile = "drone-stats.yaml"
)

// Config holds the application configuration.
type Config struct {
	// CacheDir is the directory holding cached API responses.
	CacheDir string `yaml:"cache_dir"`
	// HTTPTimeout bounds each API request.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// PostgresDSN enables the Postgres sink when non-empty.
	PostgresDSN string `yaml:"postgres_dsn"`
	// KafkaBrokers enables the Kafka sink when non-empty.
	KafkaBrokers []string `yaml:"kafka_brokers"`
	// KafkaTopic is the topic the Kafka sink produces to.
	KafkaTopic string `yaml:"kafka_topic"`
	// ServerURL is the Drone API base URL for MCP mode (DRONE_SERVER).
	ServerURL string `yaml:"server_url"`
	// Token is the Drone bearer token for MCP mode (DRONE_TOKEN).
	Token string `yaml:"-"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Load reads configuration from the optional .env file, the optional YAML
// config file, and environment variables.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	cfg := &Config{
		CacheDir:    defaultCacheDir,
		HTTPTimeout: defaultHTTPTimeout,
		KafkaTopic:  defaultKafkaTopic,
	}

	if err := cfg.mergeFile(configFilePath()); err != nil {
		return nil, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RequireServer validates the fields needed to talk to the API without
// positional credentials (MCP mode).
func (c *Config) RequireServer() error {
	if c.ServerURL == "" {
		return fmt.Errorf("DRONE_SERVER environment variable is required")
	}
	if c.Token == "" {
		return fmt.Errorf("DRONE_TOKEN environment variable is required")
	}
	return nil
}

func configFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}
	return defaultConfigFile
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := os.Getenv("DRONE_STATS_CACHE"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("DRONE_STATS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DRONE_STATS_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("DRONE_STATS_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("DRONE_STATS_BROKERS"); v != "" {
		c.KafkaBrokers = splitList(v)
	}
	if v := os.Getenv("DRONE_STATS_TOPIC"); v != "" {
		c.KafkaTopic = v
	}
	if v := os.Getenv("DRONE_SERVER"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("DRONE_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("DRONE_STATS_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DRONE_STATS_VERBOSE: %w", err)
		}
		c.Verbose = b
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
