package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("API_BASE_URL", "http://api.local/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Store != StoreFile {
		t.Fatalf("store = %q, want %q", cfg.Session.Store, StoreFile)
	}
	if cfg.Session.TokenKey != "hr_token" {
		t.Fatalf("token key = %q", cfg.Session.TokenKey)
	}
	if cfg.API.BaseURL != "http://api.local/api" {
		t.Fatalf("base url not trimmed: %q", cfg.API.BaseURL)
	}
	if cfg.API.LoginPath != "/auth/login" {
		t.Fatalf("login path = %q", cfg.API.LoginPath)
	}
	if cfg.API.Timeout() != 0 {
		t.Fatal("no outbound timeout expected by default")
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "cookie")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid REDIS_DB")
	}
}

func TestGetEnvAsIntFallback(t *testing.T) {
	t.Setenv("DEVAPI_BCRYPT_COST", "high")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DevAPI.BcryptCost != 10 {
		t.Fatalf("bcrypt cost = %d, want fallback 10", cfg.DevAPI.BcryptCost)
	}
}
