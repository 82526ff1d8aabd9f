package config

import (
	"os"
	"testing"
)

// unsetEnv clears a variable for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func validConfig() Config {
	return Config{
		DBType:                DBTypeSQLite,
		DBPath:                "data/test.db",
		LogLevel:              "info",
		NotificationStartHour: 8,
		NotificationEndHour:   22,
		DueLimit:              50,
		ReviewMaxAttempts:     3,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_TYPE", "DB_PATH", "DUE_LIMIT", "REVIEW_MAX_ATTEMPTS",
		"NOTIFICATION_START_HOUR", "NOTIFICATION_END_HOUR"} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBType != DBTypeSQLite || cfg.DBPath != "data/leitner.db" {
		t.Errorf("db defaults: %+v", cfg)
	}
	if cfg.DueLimit != 50 || cfg.ReviewMaxAttempts != 3 {
		t.Errorf("limits: due=%d attempts=%d", cfg.DueLimit, cfg.ReviewMaxAttempts)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cards?sslmode=disable")
	t.Setenv("NOTIFICATION_START_HOUR", "6")
	t.Setenv("DUE_LIMIT", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBType != DBTypePostgres || cfg.NotificationStartHour != 6 || cfg.DueLimit != 20 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"unknown driver", func(c *Config) { c.DBType = "mysql" }, false},
		{"postgres without url", func(c *Config) { c.DBType = DBTypePostgres }, false},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, false},
		{"bad hour", func(c *Config) { c.NotificationEndHour = 24 }, false},
		{"zero due limit", func(c *Config) { c.DueLimit = 0 }, false},
		{"zero attempts", func(c *Config) { c.ReviewMaxAttempts = 0 }, false},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}
