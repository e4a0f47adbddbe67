// Package clipboard watches the system clipboard and turns new content into
// entry drafts.
package clipboard

import (
	"github.com/berrythewa/clipsense/internal/types"
)

// ImageSnapshot is an image read from the clipboard. Width and Height are the
// dimensions the platform reported; Bytes may be packed RGBA pixels or an
// encoded container.
type ImageSnapshot struct {
	Width  int
	Height int
	Bytes  []byte
}

// Source is a best-effort clipboard reader. Every read reports absence with a
// zero value and a nil error; errors are reserved for failed reads.
type Source interface {
	ReadText() (string, error)
	ReadImage() (*ImageSnapshot, error)
	ReadFiles() ([]string, error)
}

// AppProbe identifies the frontmost application
type AppProbe interface {
	ActiveApp() (types.AppInfo, error)
}

// Policy vetoes changes before they are classified or ingested
type Policy interface {
	IsSelfApp(app types.AppInfo) bool
	IsAppExcluded(app types.AppInfo) bool
	ExclusionApplies(ct types.ContentType) bool
	TextSizeAllowed(n int) bool
}
