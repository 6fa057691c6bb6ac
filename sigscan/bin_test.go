package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZenLiuCN/engineapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	out := new(bytes.Buffer)
	app.Writer = out
	app.ErrWriter = new(bytes.Buffer)
	err := app.Run(append([]string{"sigscan"}, args...))
	return out.String(), err
}

func moduleFile(t *testing.T, name string, at int, sig []byte) string {
	t.Helper()
	data := make([]byte, 0x400)
	copy(data[at:], sig)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func findVar(t *testing.T) []byte {
	for _, s := range engineapi.DefaultCatalog().Signatures {
		if s.Method == "FindVar" {
			return s.Pattern.Bytes()
		}
	}
	t.Fatal("FindVar not in catalog")
	return nil
}

func TestScanResolves(t *testing.T) {
	path := moduleFile(t, "vstdlib.dll", 0x40, findVar(t))
	out, err := run(t, "scan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FindVar")
	assert.Contains(t, out, "0x40")
}

func TestScanReportsMissing(t *testing.T) {
	path := moduleFile(t, "engine.bin", 0, nil)
	out, err := run(t, "scan", "--module", "engine.dll", path)
	assert.ErrorContains(t, err, "13 of 13 signatures not found in engine.dll")
	assert.Contains(t, out, "ServerCmd")

	_, err = run(t, "scan", path)
	assert.ErrorContains(t, err, "no signature")
}

func TestScanWithOverride(t *testing.T) {
	path := moduleFile(t, "tier0.dll", 0x10, []byte{0xCC, 0x40, 0x53, 0xCC})
	override := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(override, []byte("signatures:\n  - interface: cvar\n    method: FindVar\n    module: tier0.dll\n    pattern: \"?? 40 53 CC\"\n"), 0o644))
	out, err := run(t, "--catalog", override, "scan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0x10")
}

func TestFind(t *testing.T) {
	path := moduleFile(t, "blob.bin", 0x20, []byte{0x48, 0x8B, 0x05, 0x48, 0x8B, 0x11})
	out, err := run(t, "find", "--pattern", "48 8B ??", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 matches of 48 8B ??")
	assert.Contains(t, out, "0x20 (+0x20)")
	assert.Contains(t, out, "0x23 (+0x23)")

	_, err = run(t, "find", "--pattern", "4", path)
	assert.Error(t, err)
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)
	c, err := engineapi.LoadCatalog(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.NoError(t, c.Validate())

	out, err = run(t, "catalog", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "VEngineCvar007")
}

func TestProcs(t *testing.T) {
	out, err := run(t, "procs", "--name", "no-such-process-name")
	require.NoError(t, err)
	assert.Contains(t, out, "PID")
}
