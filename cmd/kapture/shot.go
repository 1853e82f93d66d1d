package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/kapture/internal/clipboard"
	"github.com/example/kapture/internal/display"
)

// Capture entry point, held in a variable so tests can swap it.
var takeScreenshotFn = func(s *display.Session) (*image.RGBA, error) {
	return s.TakeScreenshot()
}

type shotCmd struct {
	output      string
	stdout      bool
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (s *shotCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseShotCmd(args []string, r *root) (*shotCmd, error) {
	fs := flag.NewFlagSet("shot", flag.ExitOnError)
	s := &shotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.output, "output", "", "write the capture to this file path (default: timestamped file in save_dir)")
	fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&s.toClipboard, "copy", false, "copy the capture to the clipboard instead of saving")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -copy")
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *shotCmd) Run() error {
	img, err := takeScreenshotFn(s.session())
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if s.root != nil {
		s.root.notifyCapture("screenshot", img)
	}
	if s.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied screenshot to clipboard")
		if s.root != nil {
			s.root.notifyCopy("screenshot")
		}
		return nil
	}
	var w io.Writer
	output := s.output
	if s.stdout {
		w = os.Stdout
	} else {
		if output == "" {
			output = s.defaultOutputPath()
		}
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output %q: %w", output, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Warn().Err(cerr).Str("path", output).Msg("close output")
			}
		}()
		w = f
	}
	if err := png.Encode(w, img); err != nil {
		if s.stdout {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		return fmt.Errorf("write PNG to %q: %w", output, err)
	}
	if s.stdout {
		fmt.Fprintln(os.Stderr, "wrote PNG data to stdout")
		return nil
	}
	saved := output
	if abs, err := filepath.Abs(output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if s.root != nil {
		s.root.notifySave(saved)
	}
	return nil
}

func (s *shotCmd) defaultOutputPath() string {
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("2006-01-02_15-04-05"))
	dir := ""
	if s.root != nil && s.root.config != nil {
		dir = s.root.config.SaveDir
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func (s *shotCmd) session() *display.Session {
	if s.root != nil && s.root.session != nil {
		return s.root.session
	}
	return display.NewSession()
}
