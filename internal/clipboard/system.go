package clipboard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"sync"

	atottoClip "github.com/atotto/clipboard"
	"go.uber.org/zap"
	xclip "golang.design/x/clipboard"
)

// SystemSource reads the host clipboard. Text goes through atotto/clipboard,
// images through golang.design/x/clipboard which hands back PNG bytes, and
// file lists through the Cocoa pasteboard on macOS.
type SystemSource struct {
	logger *zap.Logger

	initOnce sync.Once
	initErr  error
}

func NewSystemSource(logger *zap.Logger) *SystemSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemSource{logger: logger}
}

func (s *SystemSource) init() error {
	s.initOnce.Do(func() {
		s.initErr = xclip.Init()
		if s.initErr != nil {
			s.logger.Warn("Image clipboard unavailable, images will be skipped", zap.Error(s.initErr))
		}
	})
	return s.initErr
}

func (s *SystemSource) ReadText() (string, error) {
	if atottoClip.Unsupported {
		return "", nil
	}
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard text: %w", err)
	}
	return text, nil
}

func (s *SystemSource) ReadImage() (*ImageSnapshot, error) {
	if err := s.init(); err != nil {
		return nil, nil
	}
	data := xclip.Read(xclip.FmtImage)
	if len(data) == 0 {
		return nil, nil
	}

	snap := &ImageSnapshot{Bytes: data}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		snap.Width, snap.Height = cfg.Width, cfg.Height
	}
	return snap, nil
}

// ReadFiles returns file URLs from the macOS pasteboard. Elsewhere it reports
// absence.
func (s *SystemSource) ReadFiles() ([]string, error) {
	return readFileList()
}
