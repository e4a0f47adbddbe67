//go:build unix

package daemon

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

func terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}
