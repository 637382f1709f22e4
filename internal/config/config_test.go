package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clubhouse.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DB != "clubhouse.db" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Production() {
		t.Error("default env should not be production")
	}
	if cfg.SlowRequest() != 200*time.Millisecond {
		t.Errorf("SlowRequest = %v", cfg.SlowRequest())
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v", cfg.Level())
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location = %v", cfg.Location())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
db: club.db
log_level: debug
rate_limit: 5
timezone: Europe/Prague
trusted_origins: [club.example.com]
`)
	t.Setenv("CLUBHOUSE_DB", "/data/override.db")
	t.Setenv("CLUBHOUSE_SLOW_QUERY_MS", "25")
	t.Setenv("CLUBHOUSE_ACCESS_LOG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want file value", cfg.Addr)
	}
	if cfg.DB != "/data/override.db" {
		t.Errorf("DB = %q, want env value", cfg.DB)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}
	if cfg.SlowQuery() != 25*time.Millisecond {
		t.Errorf("SlowQuery = %v", cfg.SlowQuery())
	}
	if !cfg.AccessLog {
		t.Error("AccessLog should be enabled by env")
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}
	if cfg.Location().String() != "Europe/Prague" {
		t.Errorf("Location = %v", cfg.Location())
	}
	if len(cfg.TrustedOrigins) != 1 || cfg.TrustedOrigins[0] != "club.example.com" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
	if cfg.MailFrom != Default().MailFrom {
		t.Errorf("MailFrom = %q, want default", cfg.MailFrom)
	}
}

func TestLoad_TrustedOriginsFromEnv(t *testing.T) {
	t.Setenv("CLUBHOUSE_TRUSTED_ORIGINS", " a.example.com, ,b.example.com ")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Join(cfg.TrustedOrigins, "|") != "a.example.com|b.example.com" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
}

func TestLoad_CSRFKey(t *testing.T) {
	key := strings.Repeat("ab", 32)
	t.Setenv("CLUBHOUSE_CSRF_KEY", key)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := cfg.CSRFKeyBytes()
	if err != nil || len(b) != 32 || b[0] != 0xab {
		t.Errorf("CSRFKeyBytes = %x, %v", b, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		want string
	}{
		{name: "unknown key", file: "adress: \":1\"\n", want: "adress"},
		{name: "bad int", env: map[string]string{"CLUBHOUSE_RATE_LIMIT": "fast"}, want: "CLUBHOUSE_RATE_LIMIT"},
		{name: "bad bool", env: map[string]string{"CLUBHOUSE_ACCESS_LOG": "maybe"}, want: "ACCESS_LOG"},
		{name: "negative rate", env: map[string]string{"CLUBHOUSE_RATE_LIMIT": "-1"}, want: "rate_limit"},
		{name: "bad level", env: map[string]string{"CLUBHOUSE_LOG_LEVEL": "chatty"}, want: "log_level"},
		{name: "bad timezone", env: map[string]string{"CLUBHOUSE_TIMEZONE": "Mars/Olympus"}, want: "timezone"},
		{name: "short csrf key", env: map[string]string{"CLUBHOUSE_CSRF_KEY": "abcd"}, want: "csrf_key"},
		{name: "production without key", env: map[string]string{"CLUBHOUSE_ENV": "production"}, want: "required in production"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != Default().Addr {
		t.Errorf("Addr = %q", cfg.Addr)
	}
}
