package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/kapture/internal/display"
)

var detectFeaturesFn = func(s *display.Session) (display.WmFeatures, error) {
	return s.Features()
}

type featuresCmd struct {
	*root
	fs *flag.FlagSet
}

func parseFeaturesCmd(args []string, r *root) (*featuresCmd, error) {
	fs := flag.NewFlagSet("features", flag.ExitOnError)
	cmd := &featuresCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *featuresCmd) Run() error {
	session := display.NewSession()
	if c.root != nil && c.root.session != nil {
		session = c.root.session
	}
	feats, err := detectFeaturesFn(session)
	if err != nil {
		return fmt.Errorf("detect display server features: %w", err)
	}
	fmt.Fprintf(os.Stdout, "display server:     %s\n", feats.Kind)
	fmt.Fprintf(os.Stdout, "window enumeration: %v\n", feats.CanRetrieveWindows)
	fmt.Fprintf(os.Stdout, "portal screenshots: %v\n", feats.UsesPortals())
	return nil
}

func (c *featuresCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
