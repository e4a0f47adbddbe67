// File: internal/config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir      string `json:"base_dir" yaml:"base_dir"`           // Base directory for config files
	ActiveConfig string `json:"active_config" yaml:"active_config"` // Path to the config file
	DataDir      string `json:"data_dir" yaml:"data_dir"`           // Root for the database and images
	ImagesDir    string `json:"images_dir" yaml:"images_dir"`       // Ingested images, always DataDir/imgs
	DBFile       string `json:"db_file" yaml:"db_file"`             // Path to database file
	LogDir       string `json:"log_dir" yaml:"log_dir"`             // Directory for log files
	SocketPath   string `json:"socket_path" yaml:"socket_path"`     // Daemon IPC socket
}

// Config holds all application configuration
type Config struct {
	DeviceID string `json:"device_id" yaml:"device_id" validate:"required"`

	SystemPaths ConfigPaths `json:"system_paths" yaml:"system_paths"`

	Log     LogConfig     `json:"log" yaml:"log"`
	Monitor MonitorConfig `json:"monitor" yaml:"monitor"`
	Text    TextConfig    `json:"text" yaml:"text"`
	Images  ImagesConfig  `json:"images" yaml:"images"`
	Privacy PrivacyConfig `json:"privacy" yaml:"privacy"`
	Expiry  ExpiryConfig  `json:"expiry" yaml:"expiry"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	API     APIConfig     `json:"api" yaml:"api"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level             string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format            string `json:"format" yaml:"format" validate:"oneof=json console"`
	EnableFileLogging bool   `json:"enable_file_logging" yaml:"enable_file_logging"`
}

// MonitorConfig controls the clipboard polling loop
type MonitorConfig struct {
	PollInterval      time.Duration `json:"poll_interval" yaml:"poll_interval" validate:"min=10ms"`
	SelfBackoffFactor int           `json:"self_backoff_factor" yaml:"self_backoff_factor" validate:"min=1"`
	SelfBundleIDs     []string      `json:"self_bundle_ids" yaml:"self_bundle_ids"`
	// RecencyWindow > 1 suppresses any of the last N payloads instead of only the previous one
	RecencyWindow int `json:"recency_window" yaml:"recency_window" validate:"min=0,max=1024"`
}

// TextConfig limits captured text
type TextConfig struct {
	MaxSizeMB float64 `json:"max_size_mb" yaml:"max_size_mb" validate:"gt=0"`
}

// ImagesConfig controls image ingestion
type ImagesConfig struct {
	KeepUndecodable bool `json:"keep_undecodable" yaml:"keep_undecodable"`
}

// ExcludedApp identifies an application whose copies are never recorded
type ExcludedApp struct {
	BundleID string `json:"bundle_id" yaml:"bundle_id"`
	Name     string `json:"name" yaml:"name"`
}

// PrivacyConfig holds the exclusion list
type PrivacyConfig struct {
	ExcludedApps []ExcludedApp `json:"excluded_apps" yaml:"excluded_apps" validate:"dive"`
	// ApplyTo selects which content kinds the exclusion list vetoes
	ApplyTo string `json:"apply_to" yaml:"apply_to" validate:"oneof=text media all none"`
}

// ExpiryConfig sets retention in days; zero keeps entries forever
type ExpiryConfig struct {
	TextDays  int `json:"text_days" yaml:"text_days" validate:"min=0"`
	ImageDays int `json:"image_days" yaml:"image_days" validate:"min=0"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver" validate:"oneof=bolt sqlite"`
	DBPath string `json:"db_path" yaml:"db_path"`
}

// APIConfig controls the local HTTP API
type APIConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Listen  string `json:"listen" yaml:"listen" validate:"omitempty,hostname_port"`
}

// GetConfigPaths returns the platform-specific configuration paths
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir := os.Getenv("CLIPSENSE_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}

		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "Clipsense")
		case "darwin":
			baseDir = filepath.Join(configDir, "com.berrythewa.clipsense")
		default:
			baseDir = filepath.Join(configDir, "clipsense")
		}
	}

	dataDir := os.Getenv("CLIPSENSE_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		switch runtime.GOOS {
		case "windows":
			if appData, err := os.UserConfigDir(); err == nil {
				dataDir = filepath.Join(appData, "Clipsense", "Data")
			} else {
				dataDir = filepath.Join(homeDir, "AppData", "Local", "Clipsense")
			}
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "Clipsense")
		default:
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, "clipsense")
			} else {
				dataDir = filepath.Join(homeDir, ".clipsense")
			}
		}
	}

	return pathsFor(baseDir, dataDir), nil
}

func pathsFor(baseDir, dataDir string) *ConfigPaths {
	return &ConfigPaths{
		BaseDir:      baseDir,
		ActiveConfig: filepath.Join(baseDir, "config.yaml"),
		DataDir:      dataDir,
		ImagesDir:    filepath.Join(dataDir, "imgs"),
		DBFile:       filepath.Join(dataDir, "clipsense.db"),
		LogDir:       filepath.Join(dataDir, "logs"),
		SocketPath:   filepath.Join(dataDir, "clipsense.sock"),
	}
}

// EnsureDirs creates every directory the daemon writes to
func (p *ConfigPaths) EnsureDirs() error {
	for _, dir := range []string{p.BaseDir, p.DataDir, p.ImagesDir, p.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	paths, err := GetConfigPaths()
	if err != nil {
		paths = pathsFor(filepath.Join(os.TempDir(), "clipsense"), filepath.Join(os.TempDir(), "clipsense", "data"))
	}
	defaults := GetPlatformDefaults()

	return &Config{
		DeviceID:    uuid.New().String(),
		SystemPaths: *paths,
		Log: LogConfig{
			Level:             "info",
			Format:            "json",
			EnableFileLogging: true,
		},
		Monitor: MonitorConfig{
			PollInterval:      defaults.PollInterval,
			SelfBackoffFactor: 4,
			SelfBundleIDs:     defaults.SelfBundleIDs,
		},
		Text: TextConfig{
			MaxSizeMB: 1.0,
		},
		Images: ImagesConfig{
			KeepUndecodable: true,
		},
		Privacy: PrivacyConfig{
			ExcludedApps: defaults.ExcludedApps,
			ApplyTo:      ApplyToMedia,
		},
		Expiry: ExpiryConfig{
			TextDays:  30,
			ImageDays: 7,
		},
		Storage: StorageConfig{
			Driver: DriverBolt,
			DBPath: paths.DBFile,
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:7878",
		},
	}
}

// Load loads the configuration from the specified file or creates default if not exists
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		paths, err := GetConfigPaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ActiveConfig
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg := DefaultConfig()
		cfg.SystemPaths.ActiveConfig = configPath
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		overrideFromEnv(cfg)
		return cfg, cfg.Validate()
	}

	// Unset keys keep their defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.SystemPaths.ActiveConfig = configPath
	cfg.SystemPaths.ImagesDir = filepath.Join(cfg.SystemPaths.DataDir, "imgs")
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = cfg.SystemPaths.DBFile
	}

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv("CLIPSENSE_DATA_DIR"); val != "" {
		active := config.SystemPaths.ActiveConfig
		config.SystemPaths = *pathsFor(config.SystemPaths.BaseDir, val)
		config.SystemPaths.ActiveConfig = active
		config.Storage.DBPath = config.SystemPaths.DBFile
	}
	if val := os.Getenv("CLIPSENSE_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("CLIPSENSE_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.Monitor.PollInterval = d
		} else if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Monitor.PollInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if val := os.Getenv("CLIPSENSE_STORAGE_DRIVER"); val != "" {
		config.Storage.Driver = val
	}
}
