package main

import (
	"strings"
	"testing"
)

func TestLoadConfig_RejectsProductionWithoutJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/medibloom")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := loadConfig()
	if err == nil {
		t.Fatal("expected startup to be refused without JWT_SECRET in production")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("expected a JWT_SECRET error, got: %v", err)
	}
}

func TestLoadConfig_RejectsPartialVideoCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/medibloom")
	t.Setenv("ENV", "development")
	t.Setenv("VIDEO_ACCOUNT_SID", "ACxxxx")
	t.Setenv("VIDEO_API_KEY", "")
	t.Setenv("VIDEO_API_SECRET", "")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected startup to be refused with partial video credentials")
	}
}

func TestLoadConfig_AcceptsValidProductionConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/medibloom")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
}
