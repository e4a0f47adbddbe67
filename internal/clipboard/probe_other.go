//go:build !linux && !windows && !(darwin && cgo)

package clipboard

import (
	"errors"

	"github.com/berrythewa/clipsense/internal/types"
	"go.uber.org/zap"
)

var errProbeUnsupported = errors.New("active application lookup not supported on this platform")

type unsupportedProbe struct{}

// NewAppProbe returns the platform probe. Every lookup fails, so changes are
// attributed to an unknown application.
func NewAppProbe(logger *zap.Logger) AppProbe {
	if logger != nil {
		logger.Debug("Active application probe unavailable")
	}
	return unsupportedProbe{}
}

func (unsupportedProbe) ActiveApp() (types.AppInfo, error) {
	return types.AppInfo{}, errProbeUnsupported
}
