package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsWithSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Database.URL != "" {
		t.Fatalf("database url = %q, want empty default", cfg.Database.URL)
	}
	if cfg.Auth.AccessTokenTTL() != time.Hour {
		t.Fatalf("ttl = %v, want 1h", cfg.Auth.AccessTokenTTL())
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Fatalf("model = %q", cfg.Gemini.Model)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("redis addr = %q", cfg.Redis.Addr())
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when jwt secret is missing")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("API_PORT", "9999")
	t.Setenv("DATABASE_URL", "host=db port=5432 user=u password=p dbname=n sslmode=disable")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9999 {
		t.Fatalf("port = %d, want 9999", cfg.API.Port)
	}
	if cfg.Database.URL == "" {
		t.Fatal("database url override lost")
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("model = %q", cfg.Gemini.Model)
	}
}

func TestOrigins_Parsing(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"https://app.example.com", 1},
		{"https://a.example.com, https://b.example.com", 2},
		{" , ", 0},
	}

	for _, tc := range cases {
		api := APIConfig{CORSOrigins: tc.raw}
		if got := len(api.Origins()); got != tc.want {
			t.Errorf("Origins(%q) = %d entries, want %d", tc.raw, got, tc.want)
		}
	}
}
