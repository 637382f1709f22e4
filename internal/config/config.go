// Package config loads clubhouse settings from an optional YAML file and
// CLUBHOUSE_* environment variables. Environment wins over the file; defaults
// fill whatever neither sets.
package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CLUBHOUSE_"

// Config holds process-level settings for the server and CLI.
type Config struct {
	Addr           string   `yaml:"addr"`
	DB             string   `yaml:"db"`
	Env            string   `yaml:"env"`
	CSRFKey        string   `yaml:"csrf_key"` // hex, 32 bytes
	ResendKey      string   `yaml:"resend_key"`
	MailFrom       string   `yaml:"mail_from"`
	ReplyTo        string   `yaml:"reply_to"`
	SlowQueryMs    int      `yaml:"slow_query_ms"`
	SlowRequestMs  int      `yaml:"slow_request_ms"`
	LogLevel       string   `yaml:"log_level"`
	Locale         string   `yaml:"locale"`
	Timezone       string   `yaml:"timezone"`
	RateLimit      int      `yaml:"rate_limit"` // requests per second per client; 0 disables
	TrustedOrigins []string `yaml:"trusted_origins"`
	AccessLog      bool     `yaml:"access_log"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:          ":8080",
		DB:            "clubhouse.db",
		Env:           "development",
		MailFrom:      "Clubhouse <noreply@clubhouse.local>",
		SlowQueryMs:   50,
		SlowRequestMs: 200,
		LogLevel:      "info",
		Locale:        "en",
		Timezone:      "UTC",
		RateLimit:     20,
	}
}

// Load reads path (when non-empty), applies environment overrides and validates.
// PRE: path is empty or names a readable YAML file
// POST: Returns a validated config, or an error naming the offending setting
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// decodeYAML rejects unknown keys so a typo does not silently fall back to a default.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":       &c.Addr,
		"DB":         &c.DB,
		"ENV":        &c.Env,
		"CSRF_KEY":   &c.CSRFKey,
		"RESEND_KEY": &c.ResendKey,
		"MAIL_FROM":  &c.MailFrom,
		"REPLY_TO":   &c.ReplyTo,
		"LOG_LEVEL":  &c.LogLevel,
		"LOCALE":     &c.Locale,
		"TIMEZONE":   &c.Timezone,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SLOW_QUERY_MS":   &c.SlowQueryMs,
		"SLOW_REQUEST_MS": &c.SlowRequestMs,
		"RATE_LIMIT":      &c.RateLimit,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s must be an integer, got %q", EnvPrefix, key, v)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "ACCESS_LOG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sACCESS_LOG must be a boolean, got %q", EnvPrefix, v)
		}
		c.AccessLog = b
	}
	if v, ok := lookup(EnvPrefix + "TRUSTED_ORIGINS"); ok && v != "" {
		c.TrustedOrigins = splitList(v)
	}
	return nil
}

// Validate checks ranges and formats.
// POST: Returns nil when every setting is usable
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if strings.TrimSpace(c.DB) == "" {
		return errors.New("db must not be empty")
	}
	if c.SlowQueryMs < 0 || c.SlowRequestMs < 0 {
		return errors.New("slow thresholds must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %d", c.RateLimit)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	if c.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	} else if c.Production() {
		return errors.New("csrf_key is required in production")
	}
	return nil
}

// Production reports whether the server runs with production hardening.
func (c Config) Production() bool {
	return c.Env == "production"
}

// CSRFKeyBytes decodes the hex CSRF key. An empty key yields nil.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("csrf_key must be 64 hex characters (32 bytes)")
	}
	return key, nil
}

// Location returns the club time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMs) * time.Millisecond
}

func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMs) * time.Millisecond
}

// Level maps log_level to a slog level; unknown names fall back to info.
func (c Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
	}
	return lvl, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
