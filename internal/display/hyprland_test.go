package display

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/kapture/internal/geometry"
)

func TestAssembleHyprlandWindows(t *testing.T) {
	active := hyprClient{Monitor: 0}
	active.Workspace.ID = 3

	mk := func(x, y, w, h float64, workspace, monitor int) hyprClient {
		c := hyprClient{At: [2]float64{x, y}, Size: [2]float64{w, h}, Monitor: monitor}
		c.Workspace.ID = workspace
		return c
	}

	clients := []hyprClient{
		mk(10, 10, 100, 100, 3, 0),
		mk(0, 0, 50, 50, 2, 0),  // other workspace
		mk(0, 0, 50, 50, 3, 1),  // other monitor
		mk(200, 20, 300, 400, 3, 0),
	}

	windows := assembleHyprlandWindows(clients, active, 2)

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	wantContent := geometry.Rectangle{X: 10, Y: 10, W: 100, H: 100}
	if windows[0].ContentRect != wantContent {
		t.Fatalf("content rect = %+v, want %+v", windows[0].ContentRect, wantContent)
	}
	wantOuter := geometry.Rectangle{X: 8, Y: 8, W: 104, H: 104}
	if windows[0].OuterRect != wantOuter {
		t.Fatalf("outer rect = %+v, want %+v", windows[0].OuterRect, wantOuter)
	}
	// Compositor order is preserved.
	if windows[1].ContentRect.X != 200 {
		t.Fatalf("window order changed: %+v", windows[1].ContentRect)
	}
}

func TestHyprlandWindowsQueriesIPC(t *testing.T) {
	original := hyprctlJSON
	t.Cleanup(func() { hyprctlJSON = original })

	hyprctlJSON = func(query string) ([]byte, error) {
		switch query {
		case "getoption general:border_size":
			return []byte(`{"option":"general:border_size","int":1,"set":true}`), nil
		case "activewindow":
			return []byte(`{"address":"0xabc","at":[5,5],"size":[10,10],"workspace":{"id":7},"monitor":0}`), nil
		case "clients":
			return []byte(`[
				{"address":"0xabc","at":[5,5],"size":[10,10],"workspace":{"id":7},"monitor":0},
				{"address":"0xdef","at":[50,5],"size":[10,10],"workspace":{"id":8},"monitor":0}
			]`), nil
		default:
			return nil, fmt.Errorf("unexpected query %q", query)
		}
	}

	windows, err := hyprlandWindows()
	if err != nil {
		t.Fatalf("hyprlandWindows: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	want := geometry.Rectangle{X: 4, Y: 4, W: 12, H: 12}
	if windows[0].OuterRect != want {
		t.Fatalf("outer rect = %+v, want %+v", windows[0].OuterRect, want)
	}
}

func TestHyprlandWindowsIPCFailure(t *testing.T) {
	original := hyprctlJSON
	t.Cleanup(func() { hyprctlJSON = original })

	ipcErr := errors.New("hyprctl not found")
	hyprctlJSON = func(string) ([]byte, error) { return nil, ipcErr }

	if _, err := hyprlandWindows(); !errors.Is(err, ipcErr) {
		t.Fatalf("expected IPC error, got %v", err)
	} else if KindOf(err) != ErrorTransport {
		t.Fatalf("KindOf = %v, want transport", KindOf(err))
	}
}

func TestHyprlandWindowsMalformedJSON(t *testing.T) {
	original := hyprctlJSON
	t.Cleanup(func() { hyprctlJSON = original })

	hyprctlJSON = func(string) ([]byte, error) { return []byte("not json"), nil }

	_, err := hyprlandWindows()
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if KindOf(err) != ErrorProtocol {
		t.Fatalf("KindOf = %v, want protocol", KindOf(err))
	}
}
