//go:build linux || freebsd || openbsd || netbsd || dragonfly

package display

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const (
	portalBusName    = "org.freedesktop.portal.Desktop"
	portalObjectPath = "/org/freedesktop/portal/desktop"
	portalMethod     = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse   = "org.freedesktop.portal.Request.Response"
)

var portalHandleToken = func() string {
	return fmt.Sprintf("kapture_%d", time.Now().UnixNano())
}

// portalScreenshot captures the screen through the desktop portal. The
// request is non-interactive and non-modal; the portal replies with a
// file URI once the user (or policy) allows it. With a zero timeout the
// wait is unbounded, which mirrors an unanswered permission prompt.
func portalScreenshot(timeout time.Duration) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, transportErr("dbus connect", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("dbus close")
		}
	}()

	obj := conn.Object(portalBusName, portalObjectPath)
	var handle dbus.ObjectPath
	call := obj.Call(portalMethod, 0, "", portalScreenshotOptions())
	if call.Err != nil {
		return nil, protocolErr("portal screenshot call", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, protocolErr("portal screenshot response", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, protocolErr("portal screenshot subscribe", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case sig, ok := <-sigc:
			if !ok {
				return nil, transportErr("portal screenshot", errors.New("session bus closed"))
			}
			if sig.Path != handle || sig.Name != portalResponse {
				continue
			}
			uri, err := portalResponseURI(sig.Body)
			if err != nil {
				return nil, err
			}
			return loadPortalScreenshot(uri)
		case <-expired:
			return nil, transportErr("portal screenshot", fmt.Errorf("no response within %s", timeout))
		}
	}
}

func portalScreenshotOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"interactive":  dbus.MakeVariant(false),
		"modal":        dbus.MakeVariant(false),
	}
}

// portalResponseURI extracts the screenshot file URI from a Response
// signal body: a response code followed by a result vardict.
func portalResponseURI(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", protocolErr("portal screenshot", errors.New("malformed response signal"))
	}
	if code, ok := body[0].(uint32); !ok || code != 0 {
		return "", capabilityErr("portal screenshot", fmt.Errorf("request declined (code %v)", body[0]))
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", protocolErr("portal screenshot", errors.New("malformed response results"))
	}
	uriVar, ok := results["uri"]
	if !ok {
		return "", protocolErr("portal screenshot", errors.New("response missing uri"))
	}
	uri, ok := uriVar.Value().(string)
	if !ok {
		return "", protocolErr("portal screenshot", errors.New("uri is not a string"))
	}
	return uri, nil
}

// loadPortalScreenshot reads and decodes the portal's screenshot file.
// The screenshot portal writes into the user's home directory rather than
// a temp dir, so the file is removed once read; the capture has already
// succeeded by then, so a failed delete is only logged.
func loadPortalScreenshot(uri string) (*image.RGBA, error) {
	path := strings.TrimPrefix(uri, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr("open portal screenshot", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("path", path).Msg("close portal screenshot")
		}
	}()
	defer func() {
		go func() {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Warn().Err(err).Str("path", path).Msg("failed to delete portal screenshot file")
			}
		}()
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, decodeErr("decode portal screenshot", err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)
	return rgba, nil
}
