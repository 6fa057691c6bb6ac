//go:build windows && amd64

package native

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func TestInterfaceWithoutFactory(t *testing.T) {
	_, err := Process().Interface("kernel32.dll", "VEngineClient015")
	var nf *InterfaceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "kernel32.dll", nf.Module)
	assert.Error(t, nf.Err)
}

func TestInterfaceModuleNotLoaded(t *testing.T) {
	_, err := Process().Interface("no_such_module.dll", "VEngineClient015")
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
}

func TestCallSystemFunction(t *testing.T) {
	p := windows.NewLazySystemDLL("kernel32.dll").NewProc("GetCurrentProcessId")
	require.NoError(t, p.Find())
	f := Func{Name: "GetCurrentProcessId", Addr: p.Addr(), Conv: Plain, Shape: Sig(Int32)}
	assert.Equal(t, int32(os.Getpid()), f.Call(Process(), 0).Int32())
}
