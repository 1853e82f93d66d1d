package display

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/example/kapture/internal/geometry"
)

// hyprctlJSON runs a read-only query against the Hyprland control IPC
// and returns its JSON output. Swapped out in tests.
var hyprctlJSON = func(query string) ([]byte, error) {
	args := append([]string{"-j"}, strings.Fields(query)...)
	out, err := exec.Command("hyprctl", args...).Output()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// hyprClient is the subset of a Hyprland client (or activewindow)
// descriptor this package consumes.
type hyprClient struct {
	Address   string     `json:"address"`
	At        [2]float64 `json:"at"`
	Size      [2]float64 `json:"size"`
	Workspace struct {
		ID int `json:"id"`
	} `json:"workspace"`
	Monitor int `json:"monitor"`
}

type hyprOption struct {
	Int int `json:"int"`
}

// hyprlandWindows enumerates the clients sharing the active window's
// workspace and monitor, in the order the compositor reports them.
func hyprlandWindows() ([]Window, error) {
	var option hyprOption
	if err := hyprlandQuery("getoption general:border_size", &option); err != nil {
		return nil, err
	}
	var active hyprClient
	if err := hyprlandQuery("activewindow", &active); err != nil {
		return nil, err
	}
	var clients []hyprClient
	if err := hyprlandQuery("clients", &clients); err != nil {
		return nil, err
	}
	return assembleHyprlandWindows(clients, active, float64(option.Int)), nil
}

func hyprlandQuery(query string, into any) error {
	out, err := hyprctlJSON(query)
	if err != nil {
		return transportErr(fmt.Sprintf("hyprctl %s", query), err)
	}
	if err := json.Unmarshal(out, into); err != nil {
		return protocolErr(fmt.Sprintf("hyprctl %s", query), err)
	}
	return nil
}

// assembleHyprlandWindows filters clients to the active workspace and
// monitor. Hyprland reports geometry without its border, so the outer
// rect is the content rect grown by the border size on each side.
func assembleHyprlandWindows(clients []hyprClient, active hyprClient, border float64) []Window {
	windows := make([]Window, 0, len(clients))
	for _, client := range clients {
		if client.Workspace.ID != active.Workspace.ID || client.Monitor != active.Monitor {
			continue
		}
		content := geometry.Rectangle{X: client.At[0], Y: client.At[1], W: client.Size[0], H: client.Size[1]}
		extents := frameExtents{left: border, right: border, top: border, bottom: border}
		windows = append(windows, Window{
			OuterRect:   outerRect(content, extents, false),
			ContentRect: content,
		})
	}
	return windows
}
