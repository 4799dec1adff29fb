// config_test.go — Unit tests for configuration loading.
package config

import "testing"

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("POSTGRES_URL", "postgres://localhost/moviebot")
	if _, err := Load(); err == nil {
		t.Error("expected error when TELEGRAM_TOKEN is missing")
	}
}

func TestLoad_RequiresPostgresURL(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POSTGRES_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when POSTGRES_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POSTGRES_URL", "postgres://localhost/moviebot")
	t.Setenv("MOVIEBOT_PREFIX", "")
	t.Setenv("MOVIEBOT_OPS_ADDR", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cases := []struct {
		field, got, want string
	}{
		{"Prefix", cfg.Prefix, "!"},
		{"OpsAddr", cfg.OpsAddr, ":8112"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"LogLevel", cfg.LogLevel, "info"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s = %q, want %q", tc.field, tc.got, tc.want)
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POSTGRES_URL", "postgres://localhost/moviebot")
	t.Setenv("MOVIEBOT_PREFIX", "?")
	t.Setenv("MOVIEBOT_OPS_ADDR", ":9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "?" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "?")
	}
	if cfg.OpsAddr != ":9000" {
		t.Errorf("OpsAddr = %q, want %q", cfg.OpsAddr, ":9000")
	}
}
