// File: internal/config/platform.go

package config

import (
	"runtime"
	"time"
)

// PlatformDefaults holds platform-specific default values
type PlatformDefaults struct {
	// Clipboard monitoring
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// Identifiers the foreground probe reports for our own process
	SelfBundleIDs []string `json:"self_bundle_ids" yaml:"self_bundle_ids"`

	// Password managers and keychains
	ExcludedApps []ExcludedApp `json:"excluded_apps" yaml:"excluded_apps"`
}

var baseExcludedApps = []ExcludedApp{
	{BundleID: "com.1password.1password7", Name: "1Password 7"},
	{BundleID: "com.apple.keychainaccess", Name: "Keychain Access"},
}

// GetPlatformDefaults returns platform-optimized default values
func GetPlatformDefaults() PlatformDefaults {
	excluded := append([]ExcludedApp(nil), baseExcludedApps...)

	switch runtime.GOOS {
	case "windows":
		return PlatformDefaults{
			PollInterval:  250 * time.Millisecond,
			SelfBundleIDs: []string{"clipsense.exe"},
			ExcludedApps: append(excluded,
				ExcludedApp{BundleID: "1Password.exe", Name: "1Password"},
				ExcludedApp{BundleID: "KeePass.exe", Name: "KeePass"},
			),
		}

	case "darwin":
		return PlatformDefaults{
			// change count based, cheap to poll
			PollInterval:  500 * time.Millisecond,
			SelfBundleIDs: []string{"com.berrythewa.clipsense"},
			ExcludedApps:  excluded,
		}

	default: // Linux and other Unix-like systems
		return PlatformDefaults{
			PollInterval:  500 * time.Millisecond,
			SelfBundleIDs: []string{"clipsense"},
			// X11 reports WM_CLASS as the bundle id
			ExcludedApps: append(excluded,
				ExcludedApp{BundleID: "1Password", Name: "1Password"},
				ExcludedApp{BundleID: "KeePassXC", Name: "KeePassXC"},
			),
		}
	}
}
