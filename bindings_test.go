package engineapi

import (
	"math"
	"runtime"
	"sync"
	"testing"

	"github.com/ZenLiuCN/engineapi/native"
	"github.com/ZenLiuCN/fn"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ready(t *testing.T) (*Engine, *fakeHost) {
	t.Helper()
	c := DefaultCatalog()
	h := newFakeHost(c)
	var b Bootstrap
	return fn.Panic1(b.Initialize(h, WithCatalog(c))), h
}

func TestClientCommands(t *testing.T) {
	e, h := ready(t)
	var got []string
	var reliable []bool
	record := func(args []uintptr) native.Result {
		require.Equal(t, e.Client().This(), args[0])
		got = append(got, native.GoString(args[1]))
		if len(args) > 2 {
			reliable = append(reliable, args[2] == 1)
		}
		return native.Result{}
	}
	h.on("client.ServerCmd", record)
	h.on("client.ClientCmd", record)
	h.on("client.ExecuteClientCmdUnrestricted", record)

	e.Client().ServerCmd("say hello", true)
	e.Client().ClientCmd("toggleconsole")
	e.Client().ExecuteClientCmdUnrestricted("disconnect")
	assert.Equal(t, []string{"say hello", "toggleconsole", "disconnect"}, got)
	assert.Equal(t, []bool{true}, reliable)
}

func TestClientViewAngles(t *testing.T) {
	e, h := ready(t)
	var stored QAngle
	h.on("client.SetViewAngles", func(args []uintptr) native.Result {
		stored = *native.At[QAngle](args[1])
		return native.Result{}
	})
	h.on("client.GetViewAngles", func(args []uintptr) native.Result {
		*native.At[QAngle](args[1]) = stored
		return native.Result{}
	})
	e.Client().SetViewAngles(QAngle{Pitch: 10, Yaw: -90.5, Roll: 0})
	a := e.Client().GetViewAngles()
	assert.Equal(t, QAngle{Pitch: 10, Yaw: -90.5}, a)
	assert.Equal(t, "(10.000, -90.500, 0.000)", a.String())
}

func TestClientQueries(t *testing.T) {
	e, h := ready(t)
	var pin runtime.Pinner
	defer pin.Unpin()
	level := native.CString(&pin, "maps/cp_badlands.bsp")
	h.on("client.GetLevelName", func([]uintptr) native.Result { return native.Result{R1: level} })
	h.on("client.GetMaxClients", func([]uintptr) native.Result { return native.Result{R1: 24} })
	h.on("client.IsInGame", func([]uintptr) native.Result { return native.Result{R1: 0xAB01} })
	h.on("client.IsConnected", func([]uintptr) native.Result { return native.Result{R1: 0xAB00} })
	h.on("client.IsSingleplayer", func([]uintptr) native.Result { return native.Result{R1: 1} })
	h.on("client.GetLastTimeStamp", func([]uintptr) native.Result {
		return native.Result{R1: 0xFFFF, R2: uintptr(math.Float32bits(1234.5))}
	})

	c := e.Client()
	assert.Equal(t, "maps/cp_badlands.bsp", c.GetLevelName())
	assert.Equal(t, int32(24), c.GetMaxClients())
	assert.True(t, c.IsInGame())
	assert.False(t, c.IsConnected())
	assert.False(t, c.IsDrawingLoadingImage())
	assert.True(t, c.IsSingleplayer())
	assert.Equal(t, float32(1234.5), c.GetLastTimeStamp())
}

func TestClientPlayerInfo(t *testing.T) {
	e, h := ready(t)
	h.on("client.GetPlayerInfo", func(args []uintptr) native.Result {
		if int32(args[1]) != 3 {
			return native.Result{}
		}
		p := native.At[PlayerInfo](args[2])
		copy(p.name[:], "Heavy")
		copy(p.guid[:], "STEAM_1:0:42")
		p.UserID = 7
		p.FakePlayer = true
		return native.Result{R1: 1}
	})
	p, ok := e.Client().GetPlayerInfo(3)
	require.True(t, ok)
	assert.Equal(t, "Heavy", p.Name())
	assert.Equal(t, "STEAM_1:0:42", p.GUID())
	assert.Equal(t, "", p.FriendsName())
	assert.Equal(t, int32(7), p.UserID)
	assert.True(t, p.FakePlayer)

	p, ok = e.Client().GetPlayerInfo(-1)
	assert.False(t, ok)
	assert.Equal(t, PlayerInfo{}, p)
}

func TestInputStack(t *testing.T) {
	e, h := ready(t)
	const ctx = InputContext(0x5150)
	state := map[string]uintptr{}
	set := func(name string) handler {
		return func(args []uintptr) native.Result {
			require.Equal(t, uintptr(ctx), args[1])
			state[name] = args[2]
			return native.Result{}
		}
	}
	h.on("input_stack.PushInputContext", func([]uintptr) native.Result { return native.Result{R1: uintptr(ctx)} })
	h.on("input_stack.EnableInputContext", set("enabled"))
	h.on("input_stack.SetCursorVisible", set("visible"))
	h.on("input_stack.SetMouseCapture", set("capture"))
	h.on("input_stack.SetCursorPosition", func(args []uintptr) native.Result {
		state["x"], state["y"] = args[2], args[3]
		return native.Result{}
	})
	h.on("input_stack.IsTopmostEnabledContext", func(args []uintptr) native.Result {
		return native.Result{R1: native.BoolArg(args[1] == uintptr(ctx) && state["enabled"] == 1)}
	})

	s := e.InputStackSystem()
	c := s.PushInputContext()
	assert.Equal(t, ctx, c)
	assert.False(t, s.IsTopmostEnabledContext(c))
	s.EnableInputContext(c, true)
	s.SetCursorVisible(c, true)
	s.SetMouseCapture(c, false)
	s.SetCursorPosition(c, 640, -1)
	assert.True(t, s.IsTopmostEnabledContext(c))
	assert.Equal(t, uintptr(1), state["visible"])
	assert.Equal(t, uintptr(0), state["capture"])
	assert.Equal(t, int32(640), int32(state["x"]))
	assert.Equal(t, int32(-1), int32(state["y"]))
}

func TestCvarFindVar(t *testing.T) {
	e, h := ready(t)
	var pin runtime.Pinner
	defer pin.Unpin()
	cheats := &conCommandBase{name: native.CString(&pin, "sv_cheats"), flags: 1 << 14}
	addr := native.Ref(&pin, cheats)
	h.on("cvar.FindVar", func(args []uintptr) native.Result {
		if native.GoString(args[1]) == "sv_cheats" {
			return native.Result{R1: addr}
		}
		return native.Result{}
	})
	v := e.Cvar().FindVar("sv_cheats")
	require.True(t, v.Found())
	assert.Equal(t, addr, v.Addr())
	assert.Equal(t, "sv_cheats", v.Name())
	assert.Equal(t, int32(1<<14), v.Flags())

	v = e.Cvar().FindVar("no_such_var")
	assert.False(t, v.Found())
	assert.Equal(t, "", v.Name())
	assert.Zero(t, v.Flags())
}

func TestConsumersShareEngine(t *testing.T) {
	e, h := ready(t)
	h.on("client.GetMaxClients", func([]uintptr) native.Result { return native.Result{R1: 32} })
	var w sync.WaitGroup
	for i := 0; i < 10; i++ {
		w.Add(1)
		go func() {
			defer w.Done()
			assert.Equal(t, int32(32), e.Client().GetMaxClients())
			assert.False(t, e.InputStackSystem().IsTopmostEnabledContext(0))
		}()
	}
	w.Wait()
	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.calls, 20)
	if testing.Verbose() {
		sp := spew.NewDefaultConfig()
		sp.MaxDepth = 2
		t.Log(sp.Sdump(e.Client().Funcs()))
	}
}
