package pidfile_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/infrastructure/pidfile"
)

func TestAcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "entries.pid")
	pf := pidfile.New(path)

	// Act
	require.NoError(t, pf.Acquire())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, pf.Release())

	// Assert
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
	assert.NoFileExists(t, path)
	assert.NoError(t, pf.Release())
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	assert.NoError(t, pidfile.New(path).Acquire())
}

func TestAcquire_ReplacesStaleProcess(t *testing.T) {
	// Arrange
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())
	path := filepath.Join(t.TempDir(), "entries.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	assert.NoError(t, err)
}

func TestAcquire_RejectsLiveProcess(t *testing.T) {
	// Arrange
	cmd := exec.Command("sleep", "5")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	path := filepath.Join(t.TempDir(), "entries.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	assert.ErrorIs(t, err, pidfile.ErrAlreadyRunning)
}
