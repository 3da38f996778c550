package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "enabled_sources:\n  - 新浪财经\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
	if cfg.Classifier.MinContentLen != 200 {
		t.Errorf("MinContentLen = %d, want default 200", cfg.Classifier.MinContentLen)
	}
	if cfg.Classifier.MaxEmoji != 10 {
		t.Errorf("MaxEmoji = %d, want default 10", cfg.Classifier.MaxEmoji)
	}
	if len(cfg.Classifier.AdKeywords) == 0 {
		t.Error("AdKeywords is empty, want default blocklist")
	}
}

func TestLoadConfig_RejectsBadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "crawl_schedule:\n  - \"25:99\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() error = nil for invalid schedule, want error")
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := DefaultConfig()
	if err := want.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(got.EnabledSources) != len(want.EnabledSources) {
		t.Errorf("EnabledSources = %v, want %v", got.EnabledSources, want.EnabledSources)
	}
	if got.RequestTimeoutSeconds != want.RequestTimeoutSeconds {
		t.Errorf("RequestTimeoutSeconds = %d, want %d", got.RequestTimeoutSeconds, want.RequestTimeoutSeconds)
	}
}
