package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/example/kapture/internal/config"
	"github.com/example/kapture/internal/display"
	"github.com/example/kapture/internal/logging"
	"github.com/example/kapture/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	session       *display.Session
	notifier      *notify.Notifier
	config        *config.Config
	loader        *config.Loader
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	logLevel      string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("kapture", flag.ExitOnError),
		program:  "kapture",
		notifier: notify.New(prefs),
		config:   cfg,
		loader:   loader,
	}
	r.session = display.NewSession(display.WithSettingsSource(r.captureSettings))
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.logLevel, "log-level", cfg.LogLevel, "log level: trace, debug, info, warn, or error")
	r.fs.Usage = usageFunc(r)
	return r
}

// captureSettings re-reads the configuration so that edits to
// capture_mouse_cursor take effect on the next screenshot without a
// restart. A failed re-read falls back to the startup configuration.
func (r *root) captureSettings() display.Settings {
	cfg := r.config
	if fresh, err := r.loader.Load(); err == nil {
		cfg = fresh
	} else {
		log.Warn().Err(err).Msg("re-read config")
	}
	timeout, err := cfg.PortalTimeoutDuration()
	if err != nil {
		log.Warn().Err(err).Msg("portal timeout")
	}
	return display.Settings{
		CaptureMouseCursor: cfg.CaptureMouseCursor,
		PortalTimeout:      timeout,
	}
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	logging.Init(r.logLevel)
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCapture, r.captureAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "shot":
		cmd, err = parseShotCmd(subArgs, r)
	case "windows":
		cmd, err = parseWindowsCmd(subArgs, r)
	case "features":
		cmd, err = parseFeaturesCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyCapture(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Capture(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

func buildInfo() string {
	parts := []string{version}
	if commit != "" {
		parts = append(parts, commit)
	}
	if date != "" {
		parts = append(parts, date)
	}
	return strings.Join(parts, " ")
}
