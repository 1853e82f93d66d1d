package display

import "github.com/jezek/xgb/xproto"

// EWMH property names used on every enumeration.
const (
	netSupported          = "_NET_SUPPORTED"
	netClientListStacking = "_NET_CLIENT_LIST_STACKING"
	netFrameExtents       = "_NET_FRAME_EXTENTS"
	netWmState            = "_NET_WM_STATE"
	netWmStateFullscreen  = "_NET_WM_STATE_FULLSCREEN"
)

// Property reply caps. These are hard limits, not hints: windows beyond
// the 128th in the stacking list are silently dropped.
const (
	maxClientListWindows = 128
	maxSupportedAtoms    = 50
	maxWindowStateAtoms  = 1024
	frameExtentCardinals = 4
)

// atomsOfInterest caches the server-assigned identifiers of the EWMH
// properties above. Once resolution succeeds none of the fields is zero,
// and the set is never re-validated: atoms are stable for the lifetime of
// the server.
type atomsOfInterest struct {
	clientList   xproto.Atom
	frameExtents xproto.Atom
	windowState  xproto.Atom
	fullscreen   xproto.Atom
}
