package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDFile(t *testing.T) {
	p := NewPIDFile(t.TempDir())

	_, err := p.Read()
	require.ErrorIs(t, err, ErrNotRunning)
	_, ok := p.Running()
	assert.False(t, ok)

	require.NoError(t, p.Acquire())
	pid, ok := p.Running()
	assert.True(t, ok)
	assert.Equal(t, os.Getpid(), pid)

	// acquiring again from the same process is allowed
	require.NoError(t, p.Acquire())

	require.NoError(t, p.Release())
	_, err = os.Stat(p.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestPIDFile_Invalid(t *testing.T) {
	p := NewPIDFile(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(p.Path()), 0755))
	require.NoError(t, os.WriteFile(p.Path(), []byte("not a pid"), 0644))

	_, err := p.Read()
	assert.ErrorIs(t, err, ErrNotRunning)
	_, ok := p.Running()
	assert.False(t, ok)
}

func TestPIDFile_ReleaseKeepsOtherPID(t *testing.T) {
	p := NewPIDFile(t.TempDir())
	require.NoError(t, p.Write(os.Getpid()+1))

	require.NoError(t, p.Release())
	_, err := os.Stat(p.Path())
	assert.NoError(t, err)
}

func TestStop_NotRunning(t *testing.T) {
	p := NewPIDFile(t.TempDir())
	_, err := Stop(p, time.Second)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestIsDetached(t *testing.T) {
	t.Setenv(DetachedEnv, "")
	assert.False(t, IsDetached())
	t.Setenv(DetachedEnv, "1")
	assert.True(t, IsDetached())
}
