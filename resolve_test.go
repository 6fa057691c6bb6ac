package engineapi

import (
	"testing"

	"github.com/ZenLiuCN/engineapi/memory"
	"github.com/ZenLiuCN/engineapi/native"
	"github.com/ZenLiuCN/engineapi/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAbsoluteAddress(t *testing.T) {
	img := memory.NewImage("engine.dll", 0x180000000, []byte{0x11, 0x22, 0x33, 0x44, 0x55})
	s := Signature{Interface: KeyClient, Method: "IsInGame", Pattern: pattern.MustParse("22 ?? 44")}
	f, err := Resolve(img, s, native.Sig(native.Bool))
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x180000001), f.Addr)
	assert.Equal(t, "IsInGame", f.Name)
	assert.Equal(t, native.MemberCall, f.Conv)
	assert.Equal(t, native.Sig(native.Bool), f.Shape)
}

func TestResolveOnlyWithinItsModule(t *testing.T) {
	a := memory.NewImage("engine.dll", 0x1000, []byte{0x90, 0x90, 0xC3, 0x00})
	b := memory.NewImage("vstdlib.dll", 0x9000, []byte{0x40, 0x55, 0x41, 0x56})
	s := Signature{Interface: KeyCvar, Method: "FindVar", Pattern: pattern.MustParse("55 41 56")}
	_, err := Resolve(a, s, native.Sig(native.Pointer, native.String))
	var sn *SignatureNotFoundError
	require.ErrorAs(t, err, &sn)
	assert.Equal(t, "FindVar", sn.Symbol)
	assert.Equal(t, "engine.dll", sn.Module)
	f, err := Resolve(b, s, native.Sig(native.Pointer, native.String))
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x9001), f.Addr)
}

func TestResolvePatternLongerThanModule(t *testing.T) {
	img := memory.NewImage("tiny.dll", 0x1000, []byte{0x48})
	s := Signature{Method: "ClientCmd", Pattern: pattern.MustParse("48 8B")}
	_, err := Resolve(img, s, native.Sig(native.Void, native.String))
	assert.ErrorIs(t, err, ErrSignatureNotFound)
	assert.ErrorIs(t, err, pattern.ErrTooLong)
}
