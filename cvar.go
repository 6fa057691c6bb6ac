package engineapi

import (
	"runtime"

	"github.com/ZenLiuCN/engineapi/native"
)

// KeyCvar is the catalogue key of the console variable interface.
const KeyCvar = "cvar"

const mFindVar = "FindVar"

var cvarMethods = methods{
	{mFindVar, native.Sig(native.Pointer, native.String)},
}

// Cvar is the bound console variable interface (ICvar).
type Cvar struct {
	iface
	findVar native.Func
}

func newCvar(i iface) *Cvar {
	return &Cvar{iface: i, findVar: i.fns[mFindVar]}
}

// FindVar looks a console variable up by name. The result is the zero ConVar when absent.
func (c *Cvar) FindVar(name string) ConVar {
	var pin runtime.Pinner
	defer pin.Unpin()
	return ConVar{addr: c.findVar.Call(c.inv, c.this, native.CString(&pin, name)).Pointer()}
}
