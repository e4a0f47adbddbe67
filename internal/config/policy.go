package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/berrythewa/clipsense/internal/types"
)

// Values accepted by privacy.apply_to
const (
	ApplyToText  = "text"
	ApplyToMedia = "media"
	ApplyToAll   = "all"
	ApplyToNone  = "none"
)

// Storage drivers
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks field constraints
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// MaxTextBytes is the configured text limit in bytes
func (c *Config) MaxTextBytes() int {
	return int(c.Text.MaxSizeMB * 1024 * 1024)
}

// TextSizeAllowed reports whether a text payload of n bytes may be recorded
func (c *Config) TextSizeAllowed(n int) bool {
	return n <= c.MaxTextBytes()
}

// ExclusionApplies reports whether the exclusion list vetoes content of type ct
func (c *Config) ExclusionApplies(ct types.ContentType) bool {
	switch c.Privacy.ApplyTo {
	case ApplyToNone:
		return false
	case ApplyToText:
		return ct == types.TypeText
	case ApplyToAll:
		return true
	default:
		return ct == types.TypeText || ct == types.TypeImage
	}
}

// IsAppExcluded matches app against the exclusion list by bundle id. An app
// that reports no bundle id falls back to matching by name. Comparisons
// ignore case.
func (c *Config) IsAppExcluded(app types.AppInfo) bool {
	for _, ex := range c.Privacy.ExcludedApps {
		if app.BundleID != "" {
			if ex.BundleID != "" && strings.EqualFold(ex.BundleID, app.BundleID) {
				return true
			}
			continue
		}
		if ex.Name != "" && app.Name != "" && strings.EqualFold(ex.Name, app.Name) {
			return true
		}
	}
	return false
}

// IsSelfApp reports whether app is this program
func (c *Config) IsSelfApp(app types.AppInfo) bool {
	for _, id := range c.Monitor.SelfBundleIDs {
		if id != "" && strings.EqualFold(id, app.BundleID) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(app.Name), "clipsense")
}
