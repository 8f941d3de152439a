// Package config loads process configuration for the bot connector.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Store backend selectors.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the resolved process configuration.
type Config struct {
	Port      int    `json:"port"`
	LogLevel  string `json:"log_level"`
	LogPretty bool   `json:"log_pretty"`

	// ConnectionSecret must match the GENESYS_CONNECTION_SECRET header on
	// every inbound turn.
	ConnectionSecret string `json:"genesys_connection_secret"`

	DefaultModel       string  `json:"default_openai_model"`
	DefaultTemperature float64 `json:"default_openai_temperature"`
	OpenAIBaseURL      string  `json:"openai_base_url"`

	// MCPServersConfigPath points at a JSON array of MCP tool descriptors
	// attached to every completion call. Optional.
	MCPServersConfigPath string `json:"mcp_servers_config_path"`

	// BotsConfigPath points at a JSON array of catalog bots that replaces
	// the built-in defaults. Optional.
	BotsConfigPath string `json:"bots_config_path"`

	SessionStore  string `json:"session_store"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Port:               3000,
		LogLevel:           "info",
		DefaultModel:       "gpt-4o",
		DefaultTemperature: 0.7,
		OpenAIBaseURL:      "https://api.openai.com/v1",
		SessionStore:       StoreMemory,
	}
}

// Load loads configuration from multiple sources (priority order):
//  1. Built-in defaults
//  2. Config file (botconnector.json / botconnector.jsonc in the given directory,
//     or the file named by --config / BOTCONNECTOR_CONFIG)
//  3. Environment variables (highest priority)
func Load(directory, configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = os.Getenv("BOTCONNECTOR_CONFIG")
	}
	if configFile != "" {
		if err := loadConfigFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	} else if directory != "" {
		for _, name := range []string{"botconnector.json", "botconnector.jsonc"} {
			path := filepath.Join(directory, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadConfigFile(path, cfg); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
			break
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	// Apply {env:VAR} interpolation
	data = interpolate(data)

	return json.Unmarshal(data, cfg)
}

// interpolate processes {env:VAR} placeholders.
func interpolate(data []byte) []byte {
	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	str := envPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
	return []byte(str)
}

// applyEnvOverrides applies environment variables on top of file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.LogPretty = v == "true" || v == "1"
	}
	if v := os.Getenv("GENESYS_CONNECTION_SECRET"); v != "" {
		cfg.ConnectionSecret = v
	}
	if v := os.Getenv("DEFAULT_OPENAI_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("DEFAULT_OPENAI_TEMPERATURE"); v != "" {
		if temp, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DefaultTemperature = temp
		}
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("MCP_SERVERS_CONFIG_PATH"); v != "" {
		cfg.MCPServersConfigPath = v
	}
	if v := os.Getenv("BOTS_CONFIG_PATH"); v != "" {
		cfg.BotsConfigPath = v
	}
	if v := os.Getenv("SESSION_STORE_TYPE"); v != "" {
		cfg.SessionStore = strings.ToLower(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
}

// Validate checks the configuration for startup-blocking problems.
// A redis store selection without an address is refused outright rather than
// silently downgraded to the in-process store.
func (c *Config) Validate() error {
	if c.ConnectionSecret == "" {
		return errors.New("genesys_connection_secret is required")
	}
	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New(`session_store is "redis" but redis_addr is not set`)
		}
	default:
		return fmt.Errorf("unknown session_store %q", c.SessionStore)
	}
	return nil
}
