package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/example/kapture/internal/display"
	"github.com/example/kapture/internal/geometry"
)

var listWindowsFn = func(s *display.Session) ([]display.Window, error) {
	return s.Windows()
}

type windowsCmd struct {
	asJSON bool
	*root
	fs *flag.FlagSet
}

func parseWindowsCmd(args []string, r *root) (*windowsCmd, error) {
	fs := flag.NewFlagSet("windows", flag.ExitOnError)
	cmd := &windowsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.asJSON, "json", false, "emit the window list as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

type windowJSON struct {
	Outer   rectJSON `json:"outer"`
	Content rectJSON `json:"content"`
}

type rectJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func toRectJSON(r geometry.Rectangle) rectJSON {
	return rectJSON{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func (c *windowsCmd) Run() error {
	windows, err := listWindowsFn(c.session())
	if err != nil {
		return err
	}
	if c.asJSON {
		out := make([]windowJSON, 0, len(windows))
		for _, win := range windows {
			out = append(out, windowJSON{
				Outer:   toRectJSON(win.OuterRect),
				Content: toRectJSON(win.ContentRect),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if len(windows) == 0 {
		fmt.Fprintln(os.Stdout, "no windows available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "windows in stacking order (bottom to top):")
	for idx, win := range windows {
		fmt.Fprintf(os.Stdout, "%3d: outer %s content %s\n", idx, formatRect(win.OuterRect), formatRect(win.ContentRect))
	}
	return nil
}

func formatRect(r geometry.Rectangle) string {
	return fmt.Sprintf("%gx%g+%g+%g", r.W, r.H, r.X, r.Y)
}

func (c *windowsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *windowsCmd) session() *display.Session {
	if c.root != nil && c.root.session != nil {
		return c.root.session
	}
	return display.NewSession()
}
