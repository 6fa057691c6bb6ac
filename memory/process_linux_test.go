//go:build linux

package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSelf(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)
	m, err := Process().Module(filepath.Base(exe))
	require.NoError(t, err)
	assert.NotZero(t, m.Base)
	assert.Equal(t, int(m.Size), len(m.Data))
	assert.Equal(t, []byte("\x7fELF"), m.Data[:4])
}

func TestProcessNotMapped(t *testing.T) {
	_, err := Process().Module("definitely-not-loaded.so")
	assert.ErrorIs(t, err, ErrModuleNotMapped)
}
