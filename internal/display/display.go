// Package display captures screenshots and enumerates windows directly
// from the display server, without going through a widget toolkit. It
// speaks the X wire protocol (with the Shape, XFIXES and RandR
// extensions) on X11 sessions and uses the desktop screenshot portal plus
// compositor IPC on Wayland sessions.
package display

import (
	"image"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/kapture/internal/geometry"
)

// Window is a point-in-time snapshot of an on-screen window's geometry.
type Window struct {
	// OuterRect includes window-manager-drawn decorations. It always
	// contains ContentRect, except for fullscreen windows and WMs that do
	// not expose decoration metadata, where the two are equal.
	OuterRect geometry.Rectangle
	// ContentRect is the window's drawable area.
	ContentRect geometry.Rectangle
}

// Settings are the capture preferences read from the application's
// configuration at the start of every capture, so a change takes effect
// on the next screenshot without restarting.
type Settings struct {
	CaptureMouseCursor bool
	// PortalTimeout bounds the wait for the portal's screenshot response.
	// Zero means wait indefinitely, which matches the portal's own
	// behaviour when a permission prompt is left unanswered.
	PortalTimeout time.Duration
}

// Session owns the feature and atom caches for one capture context.
// Every top-level call opens its own protocol connection; nothing is
// pooled. All methods block until the display server replies, and none
// support cancellation.
type Session struct {
	mu       sync.Mutex
	features *WmFeatures

	atomMu    sync.Mutex
	atomCache *atomsOfInterest

	getenv   func(string) string
	probe    func() (WmFeatures, error)
	settings func() Settings
}

// Option configures a Session.
type Option func(*Session)

// WithSettingsSource supplies the function consulted at the start of each
// capture for the current preferences.
func WithSettingsSource(fn func() Settings) Option {
	return func(s *Session) { s.settings = fn }
}

// WithEnviron replaces the environment lookup used for feature detection.
func WithEnviron(getenv func(string) string) Option {
	return func(s *Session) { s.getenv = getenv }
}

// WithFeatureProbe replaces the live X11 capability probe.
func WithFeatureProbe(probe func() (WmFeatures, error)) Option {
	return func(s *Session) { s.probe = probe }
}

// NewSession creates a capture session. Feature detection runs lazily on
// first use and its result is cached for the session's lifetime.
func NewSession(opts ...Option) *Session {
	s := &Session{
		getenv:   os.Getenv,
		settings: func() Settings { return Settings{} },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.probe == nil {
		s.probe = func() (WmFeatures, error) { return xorgWmFeatures(s) }
	}
	return s
}

// Backend entry points, held in variables so tests can swap them.
var (
	xorgScreenshotFn   = xorgTakeScreenshot
	portalScreenshotFn = portalScreenshot
	xorgWindowsFn      = xorgWindows
	hyprlandWindowsFn  = hyprlandWindows
)

// Features returns the cached display-server features, computing them on
// first call. Concurrent first calls are serialized; only one performs
// the protocol work. A failed probe is not cached, so a later call
// retries the whole detection.
func (s *Session) Features() (WmFeatures, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.features != nil {
		return *s.features, nil
	}
	feats, err := detectFeatures(s.getenv, s.probe)
	if err != nil {
		return WmFeatures{}, err
	}
	s.features = &feats
	return feats, nil
}

// UsesPortals reports whether screenshots will go through the desktop
// portal. Detection failures are reported as false rather than an error;
// callers only use this to shape UI expectations.
func (s *Session) UsesPortals() bool {
	feats, err := s.Features()
	if err != nil {
		log.Info().Err(err).Msg("feature detection failed; assuming portals are not in use")
		return false
	}
	return feats.UsesPortals()
}

// TakeScreenshot captures the monitor under the pointer (X11) or
// whatever the desktop portal grants (Wayland) and returns it as an RGBA
// image. The Wayland path may block for as long as an OS-level
// permission prompt stays open.
func (s *Session) TakeScreenshot() (*image.RGBA, error) {
	feats, err := s.Features()
	if err != nil {
		return nil, err
	}
	if feats.UsesPortals() {
		return portalScreenshotFn(s.settings().PortalTimeout)
	}
	return xorgScreenshotFn(s)
}

// Windows enumerates the on-screen windows in bottom-to-top stacking
// order. On generic Wayland compositors there is no way to do this, so
// the result is an empty list, not an error.
func (s *Session) Windows() ([]Window, error) {
	feats, err := s.Features()
	if err != nil {
		return nil, err
	}
	switch feats.Kind {
	case KindHyprland:
		return hyprlandWindowsFn()
	case KindGenericWayland:
		log.Info().Msg("window enumeration is not available on this compositor")
		return []Window{}, nil
	default:
		if !feats.CanRetrieveWindows {
			return nil, capabilityErr("get windows", ErrWindowListUnsupported)
		}
		return xorgWindowsFn(s)
	}
}
