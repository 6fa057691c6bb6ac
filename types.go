package engineapi

import (
	"bytes"
	"fmt"

	"github.com/ZenLiuCN/engineapi/native"
)

type (
	// QAngle is a view orientation in degrees, laid out as the engine's QAngle.
	QAngle struct {
		Pitch, Yaw, Roll float32
	}
	// PlayerInfo mirrors the engine's player_info_t.
	PlayerInfo struct {
		name            [32]byte
		UserID          int32
		guid            [33]byte
		FriendsID       uint32
		friendsName     [32]byte
		FakePlayer      bool
		IsHLTV          bool
		CustomFiles     [4]uint32
		FilesDownloaded uint8
	}
	// InputContext is an opaque input stack context handle owned by the host.
	InputContext uintptr
	// ConVar references a console variable owned by the host. The zero value means not found.
	ConVar struct {
		addr uintptr
	}
	// conCommandBase is the leading part of the engine's ConCommandBase on 64-bit builds.
	conCommandBase struct {
		vtable     uintptr
		next       uintptr
		registered bool
		name       uintptr
		help       uintptr
		flags      int32
	}
)

func (a QAngle) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", a.Pitch, a.Yaw, a.Roll)
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (p *PlayerInfo) Name() string        { return cstr(p.name[:]) }
func (p *PlayerInfo) GUID() string        { return cstr(p.guid[:]) }
func (p *PlayerInfo) FriendsName() string { return cstr(p.friendsName[:]) }

// Found reports whether the variable exists.
func (v ConVar) Found() bool {
	return v.addr != 0
}

// Addr is the host address of the variable.
func (v ConVar) Addr() uintptr {
	return v.addr
}

// Name reads the registered name, "" when not found.
func (v ConVar) Name() string {
	if v.addr == 0 {
		return ""
	}
	return native.GoString(native.At[conCommandBase](v.addr).name)
}

// Flags reads the FCVAR_* flags, 0 when not found.
func (v ConVar) Flags() int32 {
	if v.addr == 0 {
		return 0
	}
	return native.At[conCommandBase](v.addr).flags
}
