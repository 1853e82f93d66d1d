package display

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/example/kapture/internal/geometry"
)

func sessionWithFeatures(t *testing.T, feats WmFeatures) *Session {
	t.Helper()
	return NewSession(
		WithEnviron(envMap(nil)),
		WithFeatureProbe(func() (WmFeatures, error) { return feats, nil }),
	)
}

func TestWindowsGenericWaylandIsEmptyNotError(t *testing.T) {
	s := NewSession(WithEnviron(envMap(map[string]string{"WAYLAND_DISPLAY": "wayland-1"})))

	windows, err := s.Windows()
	if err != nil {
		t.Fatalf("Windows on generic wayland: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected empty window list, got %d entries", len(windows))
	}
}

func TestWindowsX11WithoutSupportFails(t *testing.T) {
	s := sessionWithFeatures(t, WmFeatures{Kind: KindX11, CanRetrieveWindows: false})

	if _, err := s.Windows(); !errors.Is(err, ErrWindowListUnsupported) {
		t.Fatalf("expected ErrWindowListUnsupported, got %v", err)
	}
}

func TestWindowsX11PreservesStackingOrder(t *testing.T) {
	original := xorgWindowsFn
	t.Cleanup(func() { xorgWindowsFn = original })

	want := []Window{
		{ContentRect: geometry.Rectangle{X: 0, W: 10, H: 10}},
		{ContentRect: geometry.Rectangle{X: 100, W: 20, H: 20}},
		{ContentRect: geometry.Rectangle{X: 200, W: 30, H: 30}},
	}
	xorgWindowsFn = func(*Session) ([]Window, error) { return want, nil }

	s := sessionWithFeatures(t, WmFeatures{Kind: KindX11, CanRetrieveWindows: true})
	got, err := s.Windows()
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d windows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d out of order: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWindowsHyprlandDispatch(t *testing.T) {
	original := hyprlandWindowsFn
	t.Cleanup(func() { hyprlandWindowsFn = original })

	called := false
	hyprlandWindowsFn = func() ([]Window, error) {
		called = true
		return []Window{{}}, nil
	}

	s := NewSession(WithEnviron(envMap(map[string]string{
		"WAYLAND_DISPLAY":     "wayland-1",
		"XDG_CURRENT_DESKTOP": "hyprland",
	})))
	if _, err := s.Windows(); err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if !called {
		t.Fatal("hyprland backend not dispatched")
	}
}

func TestTakeScreenshotDispatch(t *testing.T) {
	origXorg := xorgScreenshotFn
	origPortal := portalScreenshotFn
	t.Cleanup(func() {
		xorgScreenshotFn = origXorg
		portalScreenshotFn = origPortal
	})

	xorgImg := image.NewRGBA(image.Rect(0, 0, 1, 1))
	portalImg := image.NewRGBA(image.Rect(0, 0, 2, 2))
	xorgScreenshotFn = func(*Session) (*image.RGBA, error) { return xorgImg, nil }
	portalScreenshotFn = func(time.Duration) (*image.RGBA, error) { return portalImg, nil }

	s := sessionWithFeatures(t, WmFeatures{Kind: KindX11, CanRetrieveWindows: true})
	if img, err := s.TakeScreenshot(); err != nil || img != xorgImg {
		t.Fatalf("X11 session used the wrong capture path: img=%v err=%v", img, err)
	}

	s = NewSession(WithEnviron(envMap(map[string]string{"WAYLAND_DISPLAY": "wayland-0"})))
	if img, err := s.TakeScreenshot(); err != nil || img != portalImg {
		t.Fatalf("Wayland session used the wrong capture path: img=%v err=%v", img, err)
	}
}

func TestTakeScreenshotForcedPortalsOnX11(t *testing.T) {
	origPortal := portalScreenshotFn
	t.Cleanup(func() { portalScreenshotFn = origPortal })

	portalImg := image.NewRGBA(image.Rect(0, 0, 3, 3))
	portalScreenshotFn = func(time.Duration) (*image.RGBA, error) { return portalImg, nil }

	s := NewSession(
		WithEnviron(envMap(map[string]string{"KAPTURE_FORCE_USE_PORTALS": "1"})),
		WithFeatureProbe(func() (WmFeatures, error) { return WmFeatures{Kind: KindX11}, nil }),
	)
	if img, err := s.TakeScreenshot(); err != nil || img != portalImg {
		t.Fatalf("forced portals ignored: img=%v err=%v", img, err)
	}
}

func TestTakeScreenshotPortalTimeoutFromSettings(t *testing.T) {
	origPortal := portalScreenshotFn
	t.Cleanup(func() { portalScreenshotFn = origPortal })

	var got time.Duration
	portalScreenshotFn = func(timeout time.Duration) (*image.RGBA, error) {
		got = timeout
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	s := NewSession(
		WithEnviron(envMap(map[string]string{"WAYLAND_DISPLAY": "wayland-0"})),
		WithSettingsSource(func() Settings { return Settings{PortalTimeout: 90 * time.Second} }),
	)
	if _, err := s.TakeScreenshot(); err != nil {
		t.Fatalf("TakeScreenshot: %v", err)
	}
	if got != 90*time.Second {
		t.Fatalf("portal timeout = %v, want 90s", got)
	}
}

func TestUsesPortalsSwallowsDetectionFailure(t *testing.T) {
	s := NewSession(
		WithEnviron(envMap(nil)),
		WithFeatureProbe(func() (WmFeatures, error) {
			return WmFeatures{}, transportErr("connect X server", errors.New("refused"))
		}),
	)
	if s.UsesPortals() {
		t.Fatal("UsesPortals must report false when detection fails")
	}
}
