//go:build linux

package clipboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/berrythewa/clipsense/internal/types"
	"go.uber.org/zap"
)

// X11Probe reads the focused window from the EWMH root properties. The
// WM_CLASS class name is used as the bundle id.
type X11Probe struct {
	logger *zap.Logger

	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewAppProbe returns the platform probe
func NewAppProbe(logger *zap.Logger) AppProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &X11Probe{logger: logger, atoms: make(map[string]xproto.Atom)}
}

func (p *X11Probe) connect() error {
	if p.conn != nil {
		return nil
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	p.conn = conn
	p.root = xproto.Setup(conn).DefaultScreen(conn).Root
	return nil
}

func (p *X11Probe) atom(name string) (xproto.Atom, error) {
	if a, ok := p.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(p.conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	p.atoms[name] = reply.Atom
	return reply.Atom, nil
}

func (p *X11Probe) property(win xproto.Window, name string) (*xproto.GetPropertyReply, error) {
	atom, err := p.atom(name)
	if err != nil {
		return nil, err
	}
	return xproto.GetProperty(p.conn, false, win, atom, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
}

func (p *X11Probe) ActiveApp() (types.AppInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return types.AppInfo{}, err
	}

	active, err := p.property(p.root, "_NET_ACTIVE_WINDOW")
	if err != nil {
		p.reset()
		return types.AppInfo{}, fmt.Errorf("failed to query active window: %w", err)
	}
	if active.Format != 32 || len(active.Value) < 4 {
		return types.AppInfo{}, errors.New("no active window")
	}
	win := xproto.Window(xgb.Get32(active.Value))
	if win == 0 {
		return types.AppInfo{}, errors.New("no active window")
	}

	var app types.AppInfo
	if class, err := p.property(win, "WM_CLASS"); err == nil {
		// instance\0class\0
		parts := strings.Split(strings.TrimRight(string(class.Value), "\x00"), "\x00")
		app.BundleID = parts[len(parts)-1]
	}
	if name, err := p.property(win, "_NET_WM_NAME"); err == nil && len(name.Value) > 0 {
		app.Name = string(name.Value)
	} else if name, err := p.property(win, "WM_NAME"); err == nil {
		app.Name = string(name.Value)
	}
	if app.Name == "" {
		app.Name = app.BundleID
	}
	return app, nil
}

// reset drops a broken connection so the next call reconnects
func (p *X11Probe) reset() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.atoms = make(map[string]xproto.Atom)
}
