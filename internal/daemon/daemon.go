// Package daemon starts clipsense in the background and tracks it through a
// PID file in the data directory.
package daemon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DetachedEnv is set in the environment of a detached child
const DetachedEnv = "CLIPSENSE_DAEMON"

const pidFileName = "clipsense.pid"

var (
	ErrNotRunning     = errors.New("daemon is not running")
	ErrAlreadyRunning = errors.New("daemon is already running")
)

// IsDetached reports whether this process was started by Start
func IsDetached() bool {
	return os.Getenv(DetachedEnv) == "1"
}

// PIDFile records the pid of the running daemon
type PIDFile struct {
	path string
}

// NewPIDFile returns the PID file under dataDir/run
func NewPIDFile(dataDir string) *PIDFile {
	return &PIDFile{path: filepath.Join(dataDir, "run", pidFileName)}
}

func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current pid, failing when another live process holds the file
func (p *PIDFile) Acquire() error {
	if pid, ok := p.Running(); ok && pid != os.Getpid() {
		return fmt.Errorf("%w with pid %d", ErrAlreadyRunning, pid)
	}
	return p.Write(os.Getpid())
}

func (p *PIDFile) Write(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Read returns the recorded pid, or ErrNotRunning when there is no usable file
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("failed to read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: invalid pid file %s", ErrNotRunning, p.path)
	}
	return pid, nil
}

// Running returns the recorded pid and whether that process is alive
func (p *PIDFile) Running() (int, bool) {
	pid, err := p.Read()
	if err != nil {
		return 0, false
	}
	return pid, processAlive(pid)
}

// Release removes the file if it still names this process
func (p *PIDFile) Release() error {
	if pid, err := p.Read(); err != nil || pid != os.Getpid() {
		return nil
	}
	return p.Remove()
}

func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// StartOptions describes the background process
type StartOptions struct {
	Executable string
	Args       []string
	// LogFile receives the child's stdout and stderr
	LogFile string
	Logger  *zap.Logger
}

// Start launches opts.Executable in a new session, detached from the
// terminal, and returns its pid
func Start(opts StartOptions) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0755); err != nil {
		return 0, fmt.Errorf("failed to create log directory: %w", err)
	}
	logF, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logF.Close()

	cmd := exec.Command(opts.Executable, opts.Args...)
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.Env = append(os.Environ(), DetachedEnv+"=1")
	cmd.SysProcAttr = detachedAttr()

	logger.Info("Starting daemon process",
		zap.String("executable", opts.Executable),
		zap.Strings("args", opts.Args))
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon process: %w", err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("failed to release daemon process: %w", err)
	}
	return pid, nil
}

// Stop asks the recorded process to exit and waits up to timeout for it
func Stop(p *PIDFile, timeout time.Duration) (int, error) {
	pid, ok := p.Running()
	if !ok {
		p.Remove()
		return 0, ErrNotRunning
	}
	if err := terminate(pid); err != nil {
		return pid, fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	deadline := time.Now().Add(timeout)
	for processAlive(pid) {
		if time.Now().After(deadline) {
			return pid, fmt.Errorf("pid %d did not exit within %s", pid, timeout)
		}
		time.Sleep(100 * time.Millisecond)
	}
	return pid, p.Remove()
}
