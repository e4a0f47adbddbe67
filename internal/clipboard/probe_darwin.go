//go:build darwin && cgo

package clipboard

import (
	"errors"

	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/types"
)

var errNoFrontmostApp = errors.New("no frontmost application")

// CocoaProbe reports NSWorkspace's frontmost application
type CocoaProbe struct {
	logger *zap.Logger
}

// NewAppProbe returns the platform probe
func NewAppProbe(logger *zap.Logger) AppProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CocoaProbe{logger: logger}
}

func (p *CocoaProbe) ActiveApp() (types.AppInfo, error) {
	app, ok := frontmostApp()
	if !ok {
		return types.AppInfo{}, errNoFrontmostApp
	}
	return app, nil
}
