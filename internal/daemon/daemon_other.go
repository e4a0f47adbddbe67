//go:build !unix && !windows

package daemon

import (
	"errors"
	"syscall"
)

func detachedAttr() *syscall.SysProcAttr {
	return nil
}

func processAlive(pid int) bool {
	return false
}

func terminate(pid int) error {
	return errors.New("not supported on this platform")
}
