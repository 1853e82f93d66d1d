package display

import "strings"

// DisplayServerKind identifies which backend a session talks to. The set
// is closed: dispatch is a switch, not an extension point.
type DisplayServerKind int

const (
	// KindX11 is a classic X session.
	KindX11 DisplayServerKind = iota
	// KindHyprland is a Wayland session with the Hyprland compositor,
	// whose control IPC supports window enumeration.
	KindHyprland
	// KindGenericWayland is any other Wayland session. There is no
	// cross-compositor protocol for window enumeration, so these sessions
	// only get portal screenshots.
	KindGenericWayland
)

func (k DisplayServerKind) String() string {
	switch k {
	case KindX11:
		return "x11"
	case KindHyprland:
		return "hyprland"
	case KindGenericWayland:
		return "wayland"
	default:
		return "unknown"
	}
}

// WmFeatures records what the window manager or compositor the session is
// connected to can do. It is computed once per session: the display server
// a process talks to does not change at runtime.
type WmFeatures struct {
	Kind DisplayServerKind
	// CanRetrieveWindows is true when window enumeration is available:
	// on X11 when the WM advertises both the stacking list and frame
	// extents, on Hyprland always.
	CanRetrieveWindows bool
	// ShouldUsePortals forces the portal screenshot path even on X11,
	// set via KAPTURE_FORCE_USE_PORTALS=1. Useful for exercising the
	// Wayland code paths while physically running under X.
	ShouldUsePortals bool
}

// IsWayland reports whether the session uses a Wayland backend.
func (f WmFeatures) IsWayland() bool {
	return f.Kind != KindX11
}

// UsesPortals reports whether screenshots go through the desktop portal.
func (f WmFeatures) UsesPortals() bool {
	return f.ShouldUsePortals || f.Kind == KindHyprland || f.Kind == KindGenericWayland
}

// detectFeatures inspects the session environment and, for X11, performs
// a live capability probe against the server.
func detectFeatures(getenv func(string) string, xorgProbe func() (WmFeatures, error)) (WmFeatures, error) {
	wayland := strings.Contains(strings.ToLower(getenv("WAYLAND_DISPLAY")), "wayland") ||
		strings.EqualFold(getenv("XDG_SESSION_TYPE"), "wayland")

	var feats WmFeatures
	if wayland {
		feats = waylandFeatures(getenv)
	} else {
		var err error
		feats, err = xorgProbe()
		if err != nil {
			return WmFeatures{}, err
		}
	}

	if getenv("KAPTURE_FORCE_USE_PORTALS") == "1" {
		feats.ShouldUsePortals = true
	}
	return feats, nil
}

// waylandFeatures identifies the compositor from the desktop identifier.
// Only Hyprland has a native window-enumeration path; every other value,
// including an absent one, means a generic Wayland session.
func waylandFeatures(getenv func(string) string) WmFeatures {
	if strings.EqualFold(strings.TrimSpace(getenv("XDG_CURRENT_DESKTOP")), "hyprland") {
		return WmFeatures{Kind: KindHyprland, CanRetrieveWindows: true}
	}
	return WmFeatures{Kind: KindGenericWayland}
}
