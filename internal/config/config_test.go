package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/printdesk/labelpress/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("BULK_PARALLELISM", "")
	t.Setenv("TIKTOK_ALNUM_IDS", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")

	cfg := Load()
	if cfg.NATSSubject != "labels.jobs.bulk" {
		t.Fatalf("expected default nats subject, got %q", cfg.NATSSubject)
	}
	if cfg.BulkParallelism != 4 {
		t.Fatalf("expected default bulk parallelism 4, got %d", cfg.BulkParallelism)
	}
	if cfg.TikTokAlnumIDs {
		t.Fatalf("expected alnum ids disabled by default")
	}
	if cfg.APIRateLimitRPS != 10 {
		t.Fatalf("expected default rate limit 10, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("BULK_PARALLELISM", "8")
	t.Setenv("TIKTOK_ALNUM_IDS", "true")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.BulkParallelism != 8 {
		t.Fatalf("expected bulk parallelism 8, got %d", cfg.BulkParallelism)
	}
	if !cfg.TikTokAlnumIDs {
		t.Fatalf("expected alnum ids enabled")
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.APIRateLimitRPS)
	}
}

func TestCropProfilesDefaultWithoutFile(t *testing.T) {
	profiles, err := Config{}.CropProfiles()
	if err != nil {
		t.Fatalf("CropProfiles() error = %v", err)
	}
	if profiles != domain.DefaultProfiles() {
		t.Fatalf("expected built-in defaults, got %+v", profiles)
	}
}

func TestCropProfilesLoadsYAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	data := []byte(`
standalone:
  top: 10
  bottom: 10
  left: 20
  right: 8
bulk_top:
  top: 14
  bottom: 14
  left: 28
  right: 10
bulk_bottom:
  top: 14
  bottom: 14
  left: 10
  right: 28
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}

	profiles, err := Config{CropProfilePath: path}.CropProfiles()
	if err != nil {
		t.Fatalf("CropProfiles() error = %v", err)
	}
	if profiles.Standalone.Left != 20 {
		t.Fatalf("standalone left = %v, want 20", profiles.Standalone.Left)
	}
	if profiles.BulkBottom.Right != 28 {
		t.Fatalf("bulk bottom right = %v, want 28", profiles.BulkBottom.Right)
	}
}

func TestCropProfilesRejectsDegenerateMargins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	data := []byte(`
standalone:
  top: 400
  bottom: 400
  left: 18
  right: 10
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}

	if _, err := (Config{CropProfilePath: path}).CropProfiles(); err == nil {
		t.Fatalf("expected validation error")
	}
}
