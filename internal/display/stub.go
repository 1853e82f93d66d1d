//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package display

import (
	"errors"
	"image"
	"time"
)

var errUnsupportedPlatform = errors.New("display-server capture is only supported on unix-like systems")

func xorgWmFeatures(*Session) (WmFeatures, error) {
	return WmFeatures{}, capabilityErr("detect window manager features", errUnsupportedPlatform)
}

func xorgWindows(*Session) ([]Window, error) {
	return nil, capabilityErr("get windows", errUnsupportedPlatform)
}

func xorgTakeScreenshot(*Session) (*image.RGBA, error) {
	return nil, capabilityErr("take screenshot", errUnsupportedPlatform)
}

func portalScreenshot(time.Duration) (*image.RGBA, error) {
	return nil, capabilityErr("portal screenshot", errUnsupportedPlatform)
}
