// File: internal/config/config_test.go

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/berrythewa/clipsense/internal/types"
)

func setupDirs(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("CLIPSENSE_CONFIG_DIR", filepath.Join(tempDir, "config"))
	t.Setenv("CLIPSENSE_DATA_DIR", filepath.Join(tempDir, "data"))
	t.Setenv("CLIPSENSE_LOG_LEVEL", "")
	t.Setenv("CLIPSENSE_POLL_INTERVAL", "")
	t.Setenv("CLIPSENSE_STORAGE_DRIVER", "")
	return tempDir
}

func TestLoad_CreatesDefault(t *testing.T) {
	tempDir := setupDirs(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	configPath := filepath.Join(tempDir, "config", "config.yaml")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("Expected default config at %s: %v", configPath, err)
	}
	if cfg.SystemPaths.ActiveConfig != configPath {
		t.Errorf("Expected ActiveConfig %s, got %s", configPath, cfg.SystemPaths.ActiveConfig)
	}
	if cfg.SystemPaths.ImagesDir != filepath.Join(tempDir, "data", "imgs") {
		t.Errorf("Unexpected ImagesDir %s", cfg.SystemPaths.ImagesDir)
	}
	if cfg.DeviceID == "" {
		t.Error("Expected a generated DeviceID")
	}
	if cfg.Text.MaxSizeMB != 1.0 {
		t.Errorf("Expected MaxSizeMB 1.0, got %v", cfg.Text.MaxSizeMB)
	}
	if cfg.Expiry.TextDays != 30 || cfg.Expiry.ImageDays != 7 {
		t.Errorf("Unexpected expiry defaults %+v", cfg.Expiry)
	}
	if cfg.Monitor.SelfBackoffFactor != 4 {
		t.Errorf("Expected SelfBackoffFactor 4, got %d", cfg.Monitor.SelfBackoffFactor)
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	tempDir := setupDirs(t)
	configPath := filepath.Join(tempDir, "custom.yaml")

	raw := []byte(`
device_id: existing-device-id
log:
  level: debug
monitor:
  poll_interval: 250ms
  recency_window: 8
text:
  max_size_mb: 0.5
privacy:
  apply_to: text
  excluded_apps:
    - bundle_id: org.keepassxc.keepassxc
storage:
  driver: sqlite
`)
	if err := os.WriteFile(configPath, raw, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DeviceID != "existing-device-id" {
		t.Errorf("Expected DeviceID existing-device-id, got %s", cfg.DeviceID)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected Log.Level debug, got %s", cfg.Log.Level)
	}
	if cfg.Monitor.PollInterval != 250*time.Millisecond {
		t.Errorf("Expected PollInterval 250ms, got %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.RecencyWindow != 8 {
		t.Errorf("Expected RecencyWindow 8, got %d", cfg.Monitor.RecencyWindow)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Storage.Driver)
	}
	// unset keys keep defaults
	if cfg.Expiry.TextDays != 30 {
		t.Errorf("Expected default TextDays, got %d", cfg.Expiry.TextDays)
	}
	if len(cfg.Privacy.ExcludedApps) != 1 {
		t.Errorf("Expected excluded apps replaced, got %+v", cfg.Privacy.ExcludedApps)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setupDirs(t)
	t.Setenv("CLIPSENSE_LOG_LEVEL", "warn")
	t.Setenv("CLIPSENSE_POLL_INTERVAL", "1500")
	t.Setenv("CLIPSENSE_STORAGE_DRIVER", "sqlite")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected Log.Level warn, got %s", cfg.Log.Level)
	}
	if cfg.Monitor.PollInterval != 1500*time.Millisecond {
		t.Errorf("Expected PollInterval 1.5s, got %v", cfg.Monitor.PollInterval)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Storage.Driver)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tempDir := setupDirs(t)
	configPath := filepath.Join(tempDir, "bad.yaml")

	tests := map[string]string{
		"apply_to":    "privacy:\n  apply_to: files\n",
		"driver":      "storage:\n  driver: redis\n",
		"poll":        "monitor:\n  poll_interval: 1ms\n",
		"max size":    "text:\n  max_size_mb: 0\n",
		"expiry":      "expiry:\n  text_days: -1\n",
		"log level":   "log:\n  level: loud\n",
		"api address": "api:\n  listen: nowhere\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tempDir := setupDirs(t)
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Monitor.PollInterval = 750 * time.Millisecond
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if loaded.Monitor.PollInterval != 750*time.Millisecond {
		t.Errorf("Expected PollInterval 750ms, got %v", loaded.Monitor.PollInterval)
	}
	if loaded.DeviceID != cfg.DeviceID {
		t.Errorf("Expected DeviceID %s, got %s", cfg.DeviceID, loaded.DeviceID)
	}
}

func TestPolicy(t *testing.T) {
	setupDirs(t)
	cfg := DefaultConfig()

	if !cfg.IsAppExcluded(types.AppInfo{Name: "1Password 7", BundleID: "com.1password.1password7"}) {
		t.Error("Expected 1Password to be excluded")
	}
	if !cfg.IsAppExcluded(types.AppInfo{Name: "whatever", BundleID: "COM.APPLE.KEYCHAINACCESS"}) {
		t.Error("Expected bundle id match to ignore case")
	}
	if cfg.IsAppExcluded(types.AppInfo{Name: "Terminal", BundleID: "com.apple.Terminal"}) {
		t.Error("Terminal must not be excluded")
	}
	if !cfg.IsAppExcluded(types.AppInfo{Name: "keychain access"}) {
		t.Error("Expected name match when the app has no bundle id")
	}
	if cfg.IsAppExcluded(types.AppInfo{Name: "Keychain Access", BundleID: "com.example.lookalike"}) {
		t.Error("Name must not match when the app reports a different bundle id")
	}

	if !cfg.TextSizeAllowed(1024 * 1024) {
		t.Error("Expected exactly 1MB to be allowed")
	}
	if cfg.TextSizeAllowed(1024*1024 + 1) {
		t.Error("Expected 1MB+1 to be rejected")
	}

	for applyTo, want := range map[string][3]bool{
		ApplyToMedia: {true, true, false},
		ApplyToAll:   {true, true, true},
		ApplyToText:  {true, false, false},
		ApplyToNone:  {false, false, false},
	} {
		cfg.Privacy.ApplyTo = applyTo
		got := [3]bool{
			cfg.ExclusionApplies(types.TypeText),
			cfg.ExclusionApplies(types.TypeImage),
			cfg.ExclusionApplies(types.TypeFile),
		}
		if got != want {
			t.Errorf("apply_to=%s: expected %v, got %v", applyTo, want, got)
		}
	}

	if !cfg.IsSelfApp(types.AppInfo{Name: "ClipSense"}) {
		t.Error("Expected name match for self app")
	}
}
