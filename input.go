package engineapi

import (
	"github.com/ZenLiuCN/engineapi/native"
)

// KeyInputStack is the catalogue key of the input stack system interface.
const KeyInputStack = "input_stack"

const (
	mPushInputContext        = "PushInputContext"
	mEnableInputContext      = "EnableInputContext"
	mSetCursorVisible        = "SetCursorVisible"
	mSetMouseCapture         = "SetMouseCapture"
	mSetCursorPosition       = "SetCursorPosition"
	mIsTopmostEnabledContext = "IsTopmostEnabledContext"
)

var inputStackMethods = methods{
	{mPushInputContext, native.Sig(native.Pointer)},
	{mEnableInputContext, native.Sig(native.Void, native.Pointer, native.Bool)},
	{mSetCursorVisible, native.Sig(native.Void, native.Pointer, native.Bool)},
	{mSetMouseCapture, native.Sig(native.Void, native.Pointer, native.Bool)},
	{mSetCursorPosition, native.Sig(native.Void, native.Pointer, native.Int32, native.Int32)},
	{mIsTopmostEnabledContext, native.Sig(native.Bool, native.Pointer)},
}

// InputStackSystem is the bound input stack interface. An overlay pushes its
// own context and enables it to take mouse and cursor ownership from the game.
type InputStackSystem struct {
	iface
	pushInputContext        native.Func
	enableInputContext      native.Func
	setCursorVisible        native.Func
	setMouseCapture         native.Func
	setCursorPosition       native.Func
	isTopmostEnabledContext native.Func
}

func newInputStackSystem(i iface) *InputStackSystem {
	return &InputStackSystem{
		iface:                   i,
		pushInputContext:        i.fns[mPushInputContext],
		enableInputContext:      i.fns[mEnableInputContext],
		setCursorVisible:        i.fns[mSetCursorVisible],
		setMouseCapture:         i.fns[mSetMouseCapture],
		setCursorPosition:       i.fns[mSetCursorPosition],
		isTopmostEnabledContext: i.fns[mIsTopmostEnabledContext],
	}
}

// PushInputContext allocates a new context on top of the stack.
func (s *InputStackSystem) PushInputContext() InputContext {
	return InputContext(s.pushInputContext.Call(s.inv, s.this).Pointer())
}

func (s *InputStackSystem) EnableInputContext(ctx InputContext, enable bool) {
	s.enableInputContext.Call(s.inv, s.this, uintptr(ctx), native.BoolArg(enable))
}

func (s *InputStackSystem) SetCursorVisible(ctx InputContext, visible bool) {
	s.setCursorVisible.Call(s.inv, s.this, uintptr(ctx), native.BoolArg(visible))
}

func (s *InputStackSystem) SetMouseCapture(ctx InputContext, enable bool) {
	s.setMouseCapture.Call(s.inv, s.this, uintptr(ctx), native.BoolArg(enable))
}

// SetCursorPosition moves the cursor, in window client coordinates.
func (s *InputStackSystem) SetCursorPosition(ctx InputContext, x, y int32) {
	s.setCursorPosition.Call(s.inv, s.this, uintptr(ctx), native.Int32Arg(x), native.Int32Arg(y))
}

func (s *InputStackSystem) IsTopmostEnabledContext(ctx InputContext) bool {
	return s.isTopmostEnabledContext.Call(s.inv, s.this, uintptr(ctx)).Bool()
}
