// Package config loads the service configuration from a YAML or JSON file and
// LOGSTATE_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LOGSTATE_"

// Config is the full service configuration.
type Config struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Log             LogConfig     `mapstructure:"log"`
	Metrics         MetricsConfig `mapstructure:"metrics"`
	CORS            CORSConfig    `mapstructure:"cors"`
	Redis           RedisConfig   `mapstructure:"redis"`

	// IgnoredEnv lists LOGSTATE_* variables that match no setting.
	IgnoredEnv []string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type CORSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// RedisConfig enables publishing transition events when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Listen:          "127.0.0.1:8000",
		ShutdownTimeout: 5 * time.Second,
		Log:             LogConfig{Level: "info", Format: "text"},
		Metrics:         MetricsConfig{Enabled: true},
		CORS:            CORSConfig{Enabled: true},
		Redis:           RedisConfig{Channel: "logstate:events"},
	}
}

// Load reads path (YAML unless the extension is .json), applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if _, err := decode(raw, cfg, true); err != nil {
			return nil, fmt.Errorf("decoding config %s: %w", path, err)
		}
	}

	unused, err := decode(fromEnv(os.Environ()), cfg, false)
	if err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}
	for _, key := range unused {
		cfg.IgnoredEnv = append(cfg.IgnoredEnv, EnvPrefix+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	sort.Strings(cfg.IgnoredEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return raw, nil
}

// decode overlays raw onto cfg. Keys missing from raw keep their current value.
// With strict set, unknown keys are an error; otherwise they are returned.
func decode(raw map[string]any, cfg *Config, strict bool) ([]string, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return md.Unused, nil
}

// fromEnv turns LOGSTATE_LOG_LEVEL=debug into {"log": {"level": "debug"}}.
// The first underscore after the prefix separates section from key, so
// LOGSTATE_SHUTDOWN_TIMEOUT maps to the top-level shutdown_timeout.
func fromEnv(environ []string) map[string]any {
	sections := map[string]bool{"log": true, "metrics": true, "cors": true, "redis": true}
	raw := map[string]any{}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		section, field, nested := strings.Cut(name, "_")
		if nested && sections[section] {
			sub, _ := raw[section].(map[string]any)
			if sub == nil {
				sub = map[string]any{}
				raw[section] = sub
			}
			sub[field] = value
			continue
		}
		raw[name] = value
	}
	return raw
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen must not be empty")
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("config: listen %q: %w", c.Listen, err)
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("config: shutdown_timeout must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Redis.Addr != "" && c.Redis.Channel == "" {
		return errors.New("config: redis.channel must not be empty when redis.addr is set")
	}
	return nil
}
