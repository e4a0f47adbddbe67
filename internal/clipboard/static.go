package clipboard

import (
	"sync"

	"github.com/berrythewa/clipsense/internal/types"
)

// StaticSource is an in-memory Source. It backs the scan command and tests.
type StaticSource struct {
	mu    sync.Mutex
	text  string
	image *ImageSnapshot
	files []string
}

func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// SetText replaces the clipboard with text
func (s *StaticSource) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.image, s.files = text, nil, nil
}

// SetImage replaces the clipboard with an image
func (s *StaticSource) SetImage(img *ImageSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.image, s.files = "", img, nil
}

// SetFiles replaces the clipboard with a file list
func (s *StaticSource) SetFiles(files ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.image, s.files = "", nil, append([]string(nil), files...)
}

func (s *StaticSource) ReadText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, nil
}

func (s *StaticSource) ReadImage() (*ImageSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image, nil
}

func (s *StaticSource) ReadFiles() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.files...), nil
}

// StaticProbe always reports the same application
type StaticProbe types.AppInfo

func (p StaticProbe) ActiveApp() (types.AppInfo, error) {
	return types.AppInfo(p), nil
}
