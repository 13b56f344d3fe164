package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if got := cfg.DockTiming(); got != dock.DefaultTiming {
		t.Errorf("DockTiming() = %+v, want %+v", got, dock.DefaultTiming)
	}
	if cfg.Drag.DetachThreshold != dock.DefaultDetachThreshold {
		t.Errorf("DetachThreshold = %d, want %d", cfg.Drag.DetachThreshold, dock.DefaultDetachThreshold)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[screen]
width = 1920
height = 1080
icon_size = 48

[[screen.heads]]
x = 0
y = 0
w = 960
h = 1080

[[screen.heads]]
x = 960
y = 0
w = 960
h = 1080

[dock]
side = "right"
y = 96

[clip]
x = 0
y = 0

[workspaces]
count = 2
names = ["Main", "Chat"]

[timing]
auto_raise_ms = 250

[store]
backend = "memory"
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := cfg.DesktopOptions(nil)
	if opts.DockSide != dock.Right || opts.DockY != 96 {
		t.Errorf("dock = %v,%d, want right,96", opts.DockSide, opts.DockY)
	}
	if opts.ClipOrigin == nil || *opts.ClipOrigin != (geometry.Point{}) {
		t.Errorf("ClipOrigin = %v, want (0,0)", opts.ClipOrigin)
	}
	if diff := cmp.Diff([]string{"Main", "Chat"}, opts.WorkspaceNames); diff != "" {
		t.Errorf("WorkspaceNames mismatch (-want +got):\n%s", diff)
	}
	if opts.Timing.AutoRaise != 250*time.Millisecond {
		t.Errorf("AutoRaise = %v, want 250ms", opts.Timing.AutoRaise)
	}
	if opts.Timing.AutoLower != dock.DefaultTiming.AutoLower {
		t.Errorf("AutoLower = %v, want default %v", opts.Timing.AutoLower, dock.DefaultTiming.AutoLower)
	}

	geo := cfg.Geometry()
	if geo.IconSize() != 48 || len(geo.Heads()) != 2 {
		t.Errorf("geometry = icon %d, %d heads, want 48, 2", geo.IconSize(), len(geo.Heads()))
	}
	if sc := cfg.StoreConfig(); sc.Backend != "memory" {
		t.Errorf("StoreConfig().Backend = %q, want memory", sc.Backend)
	}
}

func TestClipOriginPartial(t *testing.T) {
	cfg, err := Parse("[clip]\ny = 128\n")
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.DesktopOptions(geometry.NewStatic(1280, 1024, 64))
	want := geometry.Point{X: 1216, Y: 128}
	if opts.ClipOrigin == nil || *opts.ClipOrigin != want {
		t.Errorf("ClipOrigin = %v, want %v", opts.ClipOrigin, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "[screen\nwidth = 1"},
		{"unknown key", "[dock]\nsyde = \"left\"\n"},
		{"unknown table", "[panel]\nx = 1\n"},
		{"icon size", "[screen]\nicon_size = 0\n"},
		{"tiny screen", "[screen]\nwidth = 10\n"},
		{"empty head", "[[screen.heads]]\nw = 0\nh = 10\n"},
		{"side", "[dock]\nside = \"top\"\n"},
		{"workspaces", "[workspaces]\ncount = 0\n"},
		{"workspace name", "[workspaces]\nnames = [\"\"]\n"},
		{"negative timing", "[timing]\nauto_lower_ms = -1\n"},
		{"threshold", "[drag]\ndetach_threshold = 0\n"},
		{"backend", "[store]\nbackend = \"etcd\"\n"},
		{"key", "[store]\nkey = \"../x\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want NOT_FOUND", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[timing]\nauto_raise_ms = 100\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan int, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(cfg *Config, err error) {
			if err == nil {
				reloaded <- cfg.Timing.AutoRaiseMS
			}
		})
	}()

	if err := os.WriteFile(path, []byte("[timing]\nauto_raise_ms = 300\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
wait:
	for {
		select {
		case ms := <-reloaded:
			// A write can be observed before the file is complete.
			if ms == 300 {
				break wait
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
