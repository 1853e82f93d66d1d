//go:build linux || freebsd || openbsd || netbsd || dragonfly

package display

import (
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
	"github.com/rs/zerolog/log"

	"github.com/example/kapture/internal/geometry"
)

// internedAtoms resolves the EWMH atoms of interest, caching the result
// on the session. A resolution failure is not cached: the next call
// retries the whole exchange.
func (s *Session) internedAtoms(conn *xgb.Conn) (*atomsOfInterest, error) {
	s.atomMu.Lock()
	defer s.atomMu.Unlock()
	if s.atomCache != nil {
		return s.atomCache, nil
	}

	// All four interns are dispatched before any reply is awaited.
	clientListCookie := xproto.InternAtom(conn, true, uint16(len(netClientListStacking)), netClientListStacking)
	frameExtentsCookie := xproto.InternAtom(conn, true, uint16(len(netFrameExtents)), netFrameExtents)
	windowStateCookie := xproto.InternAtom(conn, true, uint16(len(netWmState)), netWmState)
	fullscreenCookie := xproto.InternAtom(conn, true, uint16(len(netWmStateFullscreen)), netWmStateFullscreen)

	clientList, err := clientListCookie.Reply()
	if err != nil {
		return nil, protocolErr("intern "+netClientListStacking, err)
	}
	frameExtents, err := frameExtentsCookie.Reply()
	if err != nil {
		return nil, protocolErr("intern "+netFrameExtents, err)
	}
	windowState, err := windowStateCookie.Reply()
	if err != nil {
		return nil, protocolErr("intern "+netWmState, err)
	}
	fullscreen, err := fullscreenCookie.Reply()
	if err != nil {
		return nil, protocolErr("intern "+netWmStateFullscreen, err)
	}

	if clientList.Atom == xproto.AtomNone {
		return nil, capabilityErr("intern EWMH atoms", ErrWindowListUnsupported)
	}
	if frameExtents.Atom == xproto.AtomNone || windowState.Atom == xproto.AtomNone || fullscreen.Atom == xproto.AtomNone {
		return nil, capabilityErr("intern EWMH atoms", ErrFrameExtentsUnsupported)
	}

	s.atomCache = &atomsOfInterest{
		clientList:   clientList.Atom,
		frameExtents: frameExtents.Atom,
		windowState:  windowState.Atom,
		fullscreen:   fullscreen.Atom,
	}
	return s.atomCache, nil
}

// xorgWmFeatures asks the X server what the window manager can do. A WM
// without EWMH support is a valid degraded state, not an error.
func xorgWmFeatures(s *Session) (WmFeatures, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return WmFeatures{}, transportErr("connect X server", err)
	}
	defer conn.Close()

	supported, err := xproto.InternAtom(conn, true, uint16(len(netSupported)), netSupported).Reply()
	if err != nil {
		return WmFeatures{}, protocolErr("intern "+netSupported, err)
	}

	atoms, err := s.internedAtoms(conn)
	if err != nil {
		return WmFeatures{}, err
	}

	feats := WmFeatures{Kind: KindX11}
	if supported.Atom == xproto.AtomNone {
		log.Info().Msg("window manager does not support EWMH; window rects will be unavailable")
		return feats, nil
	}

	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		return WmFeatures{}, protocolErr("get root window", ErrWindowsFailed)
	}
	root := setup.Roots[0].Root

	reply, err := xproto.GetProperty(conn, false, root, supported.Atom, xproto.AtomAtom, 0, maxSupportedAtoms).Reply()
	if err != nil {
		return WmFeatures{}, protocolErr("read "+netSupported, err)
	}

	var hasClientList, hasFrameExtents bool
	for _, word := range words32FromProperty(reply.Value, reply.ValueLen) {
		switch xproto.Atom(word) {
		case atoms.clientList:
			hasClientList = true
		case atoms.frameExtents:
			hasFrameExtents = true
		}
	}
	feats.CanRetrieveWindows = hasClientList && hasFrameExtents
	return feats, nil
}

// xorgWindows enumerates viewable windows on the root screen the pointer
// is on, in the server's bottom-to-top stacking order.
func xorgWindows(s *Session) ([]Window, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, transportErr("connect X server", err)
	}
	defer conn.Close()

	if err := shape.Init(conn); err != nil {
		return nil, protocolErr("init shape extension", err)
	}

	atoms, err := s.internedAtoms(conn)
	if err != nil {
		return nil, err
	}

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, protocolErr("get windows", ErrWindowsFailed)
	}

	for _, screen := range setup.Roots {
		root := screen.Root
		pointer, err := xproto.QueryPointer(conn, root).Reply()
		if err != nil {
			return nil, protocolErr("query pointer", err)
		}
		if !pointer.SameScreen {
			continue
		}

		list, err := xproto.GetProperty(conn, false, root, atoms.clientList, xproto.AtomWindow, 0, maxClientListWindows).Reply()
		if err != nil {
			return nil, protocolErr("read "+netClientListStacking, err)
		}

		ids := words32FromProperty(list.Value, list.ValueLen)
		windows := make([]Window, 0, len(ids))
		for _, id := range ids {
			win := xproto.Window(id)

			attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
			if err != nil {
				return nil, protocolErr("get window attributes", err)
			}
			// Iconified and unmapped windows are not on screen.
			if attrs.MapState != xproto.MapStateViewable {
				continue
			}

			// The shape extents are the window's actual bounding geometry,
			// which can differ from its nominal geometry when the window is
			// shaped server-side.
			extents, err := shape.QueryExtents(conn, win).Reply()
			if err != nil {
				return nil, protocolErr("query shape extents", err)
			}

			coords, err := xproto.TranslateCoordinates(conn, win, root,
				extents.BoundingShapeExtentsX, extents.BoundingShapeExtentsY).Reply()
			if err != nil {
				return nil, protocolErr("translate window coordinates", err)
			}

			content := geometry.Rectangle{
				X: float64(coords.DstX),
				Y: float64(coords.DstY),
				W: float64(extents.BoundingShapeExtentsWidth),
				H: float64(extents.BoundingShapeExtentsHeight),
			}

			outer, err := xorgOuterRect(conn, atoms, content, win)
			if err != nil {
				return nil, err
			}

			windows = append(windows, Window{OuterRect: outer, ContentRect: content})
		}
		return windows, nil
	}

	return nil, protocolErr("get windows", ErrWindowsFailed)
}

// xorgOuterRect computes the decorated rect for a window. Both property
// requests are dispatched before either reply is awaited, saving a round
// trip per window.
func xorgOuterRect(conn *xgb.Conn, atoms *atomsOfInterest, content geometry.Rectangle, win xproto.Window) (geometry.Rectangle, error) {
	extentsCookie := xproto.GetProperty(conn, false, win, atoms.frameExtents, xproto.AtomCardinal, 0, frameExtentCardinals)
	stateCookie := xproto.GetProperty(conn, false, win, atoms.windowState, xproto.AtomAtom, 0, maxWindowStateAtoms)

	extentsReply, err := extentsCookie.Reply()
	if err != nil {
		return geometry.Rectangle{}, protocolErr("read "+netFrameExtents, err)
	}
	stateReply, err := stateCookie.Reply()
	if err != nil {
		return geometry.Rectangle{}, protocolErr("read "+netWmState, err)
	}

	fullscreen := false
	for _, word := range words32FromProperty(stateReply.Value, stateReply.ValueLen) {
		if xproto.Atom(word) == atoms.fullscreen {
			fullscreen = true
		}
	}

	// Some WMs intern _NET_FRAME_EXTENTS without ever populating it; a
	// short or missing reply means zero borders.
	var extents frameExtents
	if vals := words32FromProperty(extentsReply.Value, extentsReply.ValueLen); len(vals) >= frameExtentCardinals {
		extents = frameExtents{
			left:   float64(vals[0]),
			right:  float64(vals[1]),
			top:    float64(vals[2]),
			bottom: float64(vals[3]),
		}
	}

	return outerRect(content, extents, fullscreen), nil
}

// xorgTakeScreenshot captures the monitor under the pointer, optionally
// compositing the hardware cursor onto it.
func xorgTakeScreenshot(s *Session) (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, transportErr("connect X server", err)
	}
	defer conn.Close()

	if err := shape.Init(conn); err != nil {
		return nil, protocolErr("init shape extension", err)
	}
	if err := xfixes.Init(conn); err != nil {
		return nil, protocolErr("init xfixes extension", err)
	}
	// The server ignores XFIXES requests until the client negotiates a
	// version.
	if _, err := xfixes.QueryVersion(conn, 5, 0).Reply(); err != nil {
		return nil, protocolErr("negotiate xfixes version", err)
	}
	if err := randr.Init(conn); err != nil {
		return nil, protocolErr("init randr extension", err)
	}

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, protocolErr("take screenshot", ErrScreenshotFailed)
	}

	for _, screen := range setup.Roots {
		root := screen.Root
		pointer, err := xproto.QueryPointer(conn, root).Reply()
		if err != nil {
			return nil, protocolErr("query pointer", err)
		}
		if !pointer.SameScreen {
			continue
		}

		// The root window can span several monitors; capture only the one
		// the pointer is on.
		bounds, err := monitorUnderCursor(conn, root, geometry.Point{
			X: float64(pointer.RootX),
			Y: float64(pointer.RootY),
		})
		if err != nil {
			return nil, err
		}

		shot, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(root),
			int16(bounds.X), int16(bounds.Y), uint16(bounds.W), uint16(bounds.H), ^uint32(0)).Reply()
		if err != nil {
			return nil, protocolErr("get image", err)
		}

		if s.settings().CaptureMouseCursor {
			cursor, err := xfixes.GetCursorImage(conn).Reply()
			if err != nil {
				// Cursor overlay is best effort; the screenshot stands on
				// its own.
				log.Warn().Err(err).Msg("unable to fetch cursor image; capturing without cursor")
			} else {
				overlayCursor(cursorFromReply(cursor), shot.Data, bounds)
			}
		}

		return decodeZPixmap(setup, shot, int(bounds.W), int(bounds.H))
	}

	return nil, protocolErr("take screenshot", ErrScreenshotFailed)
}

// monitorUnderCursor returns the geometry of the active monitor
// containing the pointer, scanning monitors in server-reported order.
func monitorUnderCursor(conn *xgb.Conn, root xproto.Window, pointer geometry.Point) (geometry.Rectangle, error) {
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return geometry.Rectangle{}, protocolErr("randr screen resources", err)
	}

	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		rect := geometry.Rectangle{
			X: float64(crtc.X),
			Y: float64(crtc.Y),
			W: float64(crtc.Width),
			H: float64(crtc.Height),
		}
		if rect.Contains(pointer) {
			return rect, nil
		}
	}

	// The pointer is always on some monitor; reaching this means the
	// server gave us a layout that contradicts its own pointer position.
	log.Error().Float64("x", pointer.X).Float64("y", pointer.Y).Msg("no monitor contains the pointer")
	return geometry.Rectangle{}, protocolErr("find monitor under cursor", ErrScreenshotFailed)
}

func cursorFromReply(reply *xfixes.GetCursorImageReply) cursorImage {
	return cursorImage{
		pixels: reply.CursorImage,
		width:  int(reply.Width),
		height: int(reply.Height),
		xhot:   int(reply.Xhot),
		yhot:   int(reply.Yhot),
		x:      int(reply.X),
		y:      int(reply.Y),
	}
}
