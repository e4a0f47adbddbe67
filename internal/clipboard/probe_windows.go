//go:build windows

package clipboard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/berrythewa/clipsense/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	moduser32                    = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = moduser32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = moduser32.NewProc("GetWindowThreadProcessId")
)

// WindowsProbe resolves the foreground window to its executable. The bundle
// id is the executable's base name.
type WindowsProbe struct {
	logger *zap.Logger
}

// NewAppProbe returns the platform probe
func NewAppProbe(logger *zap.Logger) AppProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WindowsProbe{logger: logger}
}

func (p *WindowsProbe) ActiveApp() (types.AppInfo, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return types.AppInfo{}, errors.New("no foreground window")
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return types.AppInfo{}, errors.New("foreground window has no process")
	}

	proc, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return types.AppInfo{}, fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(proc)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(proc, 0, &buf[0], &size); err != nil {
		return types.AppInfo{}, fmt.Errorf("failed to query image name: %w", err)
	}

	exe := filepath.Base(windows.UTF16ToString(buf[:size]))
	return types.AppInfo{
		Name:     strings.TrimSuffix(exe, filepath.Ext(exe)),
		BundleID: exe,
	}, nil
}
