package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
capture_mouse_cursor: false
save_dir: /tmp/screens
portal_timeout: 45s
log_level: debug

notify:
  capture: true
  save: true
`
	cfg, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.CaptureMouseCursor {
		t.Error("Expected capture_mouse_cursor to be false")
	}
	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got '%s'", cfg.LogLevel)
	}
	if !cfg.Notify.Capture {
		t.Error("Expected notify.capture to be true")
	}
	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to default to false")
	}
	d, err := cfg.PortalTimeoutDuration()
	if err != nil {
		t.Fatalf("PortalTimeoutDuration: %v", err)
	}
	if d != 45*time.Second {
		t.Errorf("Expected portal timeout 45s, got %s", d)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.CaptureMouseCursor {
		t.Error("Expected capture_mouse_cursor to default to true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log_level 'info', got '%s'", cfg.LogLevel)
	}
	d, err := cfg.PortalTimeoutDuration()
	if err != nil {
		t.Fatalf("PortalTimeoutDuration: %v", err)
	}
	if d != 0 {
		t.Errorf("Expected no portal timeout by default, got %s", d)
	}
}

func TestParseRejectsBadTimeout(t *testing.T) {
	for _, input := range []string{
		"portal_timeout: soon",
		"portal_timeout: -5s",
	} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("Parse(%q) accepted an invalid timeout", input)
		}
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("save_dir: [unterminated")); err == nil {
		t.Error("Parse accepted malformed YAML")
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("save_dir: /somewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("1.0.0", path)
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SaveDir != "/somewhere" {
		t.Errorf("Expected save_dir '/somewhere', got '%s'", cfg.SaveDir)
	}
}

func TestLoaderMissingFileReturnsDefaults(t *testing.T) {
	l := NewLoader("1.0.0", filepath.Join(t.TempDir(), "absent.yaml"))
	// Point home somewhere empty so the XDG lookup misses too.
	t.Setenv("HOME", t.TempDir())

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.CaptureMouseCursor {
		t.Error("Expected default config when no file exists")
	}
}

func TestLoaderDevModeCwdLookup(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".kapture.yaml"), []byte("log_level: trace\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })

	l := NewLoader("dev", "")
	if got := l.GetConfigPath(); got != filepath.Join(dir, ".kapture.yaml") {
		t.Errorf("GetConfigPath = %q, want dev-mode cwd file", got)
	}
}
