package engineapi

import (
	"runtime"

	"github.com/ZenLiuCN/engineapi/native"
)

// KeyClient is the catalogue key of the engine client interface.
const KeyClient = "client"

const (
	mServerCmd                    = "ServerCmd"
	mClientCmd                    = "ClientCmd"
	mGetPlayerInfo                = "GetPlayerInfo"
	mGetLastTimeStamp             = "GetLastTimeStamp"
	mGetViewAngles                = "GetViewAngles"
	mSetViewAngles                = "SetViewAngles"
	mGetMaxClients                = "GetMaxClients"
	mIsInGame                     = "IsInGame"
	mIsConnected                  = "IsConnected"
	mIsDrawingLoadingImage        = "IsDrawingLoadingImage"
	mGetLevelName                 = "GetLevelName"
	mExecuteClientCmdUnrestricted = "ExecuteClientCmdUnrestricted"
	mIsSingleplayer               = "IsSingleplayer"
)

var clientMethods = methods{
	{mServerCmd, native.Sig(native.Void, native.String, native.Bool)},
	{mClientCmd, native.Sig(native.Void, native.String)},
	{mGetPlayerInfo, native.Sig(native.Bool, native.Int32, native.Pointer)},
	{mGetLastTimeStamp, native.Sig(native.Float32)},
	{mGetViewAngles, native.Sig(native.Void, native.Pointer)},
	{mSetViewAngles, native.Sig(native.Void, native.Pointer)},
	{mGetMaxClients, native.Sig(native.Int32)},
	{mIsInGame, native.Sig(native.Bool)},
	{mIsConnected, native.Sig(native.Bool)},
	{mIsDrawingLoadingImage, native.Sig(native.Bool)},
	{mGetLevelName, native.Sig(native.String)},
	{mExecuteClientCmdUnrestricted, native.Sig(native.Void, native.String)},
	{mIsSingleplayer, native.Sig(native.Bool)},
}

// Client is the bound engine client interface (VEngineClient).
type Client struct {
	iface
	serverCmd                    native.Func
	clientCmd                    native.Func
	getPlayerInfo                native.Func
	getLastTimeStamp             native.Func
	getViewAngles                native.Func
	setViewAngles                native.Func
	getMaxClients                native.Func
	isInGame                     native.Func
	isConnected                  native.Func
	isDrawingLoadingImage        native.Func
	getLevelName                 native.Func
	executeClientCmdUnrestricted native.Func
	isSingleplayer               native.Func
}

func newClient(i iface) *Client {
	return &Client{
		iface:                        i,
		serverCmd:                    i.fns[mServerCmd],
		clientCmd:                    i.fns[mClientCmd],
		getPlayerInfo:                i.fns[mGetPlayerInfo],
		getLastTimeStamp:             i.fns[mGetLastTimeStamp],
		getViewAngles:                i.fns[mGetViewAngles],
		setViewAngles:                i.fns[mSetViewAngles],
		getMaxClients:                i.fns[mGetMaxClients],
		isInGame:                     i.fns[mIsInGame],
		isConnected:                  i.fns[mIsConnected],
		isDrawingLoadingImage:        i.fns[mIsDrawingLoadingImage],
		getLevelName:                 i.fns[mGetLevelName],
		executeClientCmdUnrestricted: i.fns[mExecuteClientCmdUnrestricted],
		isSingleplayer:               i.fns[mIsSingleplayer],
	}
}

// ServerCmd sends cmd to the server.
func (c *Client) ServerCmd(cmd string, reliable bool) {
	var pin runtime.Pinner
	defer pin.Unpin()
	c.serverCmd.Call(c.inv, c.this, native.CString(&pin, cmd), native.BoolArg(reliable))
}

// ClientCmd runs cmd on the local console, subject to the engine's command restrictions.
func (c *Client) ClientCmd(cmd string) {
	var pin runtime.Pinner
	defer pin.Unpin()
	c.clientCmd.Call(c.inv, c.this, native.CString(&pin, cmd))
}

// ExecuteClientCmdUnrestricted runs cmd on the local console without restrictions.
func (c *Client) ExecuteClientCmdUnrestricted(cmd string) {
	var pin runtime.Pinner
	defer pin.Unpin()
	c.executeClientCmdUnrestricted.Call(c.inv, c.this, native.CString(&pin, cmd))
}

// GetPlayerInfo reads the info of the player at entity index ent.
func (c *Client) GetPlayerInfo(ent int32) (info PlayerInfo, ok bool) {
	var pin runtime.Pinner
	defer pin.Unpin()
	p := new(PlayerInfo)
	ok = c.getPlayerInfo.Call(c.inv, c.this, native.Int32Arg(ent), native.Ref(&pin, p)).Bool()
	if ok {
		info = *p
	}
	return
}

func (c *Client) GetLastTimeStamp() float32 {
	return c.getLastTimeStamp.Call(c.inv, c.this).Float32()
}

func (c *Client) GetViewAngles() QAngle {
	var pin runtime.Pinner
	defer pin.Unpin()
	a := new(QAngle)
	c.getViewAngles.Call(c.inv, c.this, native.Ref(&pin, a))
	return *a
}

func (c *Client) SetViewAngles(a QAngle) {
	var pin runtime.Pinner
	defer pin.Unpin()
	c.setViewAngles.Call(c.inv, c.this, native.Ref(&pin, &a))
}

func (c *Client) GetMaxClients() int32 {
	return c.getMaxClients.Call(c.inv, c.this).Int32()
}

func (c *Client) IsInGame() bool {
	return c.isInGame.Call(c.inv, c.this).Bool()
}

func (c *Client) IsConnected() bool {
	return c.isConnected.Call(c.inv, c.this).Bool()
}

func (c *Client) IsDrawingLoadingImage() bool {
	return c.isDrawingLoadingImage.Call(c.inv, c.this).Bool()
}

// GetLevelName returns the path of the current map, e.g. "maps/cp_badlands.bsp".
func (c *Client) GetLevelName() string {
	return c.getLevelName.Call(c.inv, c.this).Text()
}

func (c *Client) IsSingleplayer() bool {
	return c.isSingleplayer.Call(c.inv, c.this).Bool()
}
