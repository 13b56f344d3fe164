// Package config loads the dockworks TOML configuration.
//
// A missing file is not an error when no path was given: [Load] falls back
// to [Default], which mirrors the classic dock preferences. Unknown keys are
// rejected so typos surface instead of silently keeping a default.
//
//	[screen]
//	width = 1920
//	height = 1080
//	icon_size = 64
//
//	[dock]
//	side = "right"
//
//	[timing]
//	auto_raise_ms = 400
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/store"
)

// Config is the decoded configuration file.
type Config struct {
	Screen     Screen     `toml:"screen"`
	Dock       DockPrefs  `toml:"dock"`
	Clip       ClipPrefs  `toml:"clip"`
	Workspaces Workspaces `toml:"workspaces"`
	Timing     Timing     `toml:"timing"`
	Drag       Drag       `toml:"drag"`
	Store      Store      `toml:"store"`
	Log        Log        `toml:"log"`
}

type Screen struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	IconSize int    `toml:"icon_size"`
	Heads    []Head `toml:"heads"`
}

// Head is one monitor rectangle in screen coordinates.
type Head struct {
	X int `toml:"x"`
	Y int `toml:"y"`
	W int `toml:"w"`
	H int `toml:"h"`
}

type DockPrefs struct {
	Side    string `toml:"side"`
	Y       int    `toml:"y"`
	Enabled bool   `toml:"enabled"`
}

// ClipPrefs places the clip. X and Y are pixels; unset means the corner
// opposite the dock.
type ClipPrefs struct {
	X       *int `toml:"x"`
	Y       *int `toml:"y"`
	Enabled bool `toml:"enabled"`
}

type Workspaces struct {
	Count int      `toml:"count"`
	Names []string `toml:"names"`
}

// Timing holds the auto-behavior delays in milliseconds.
type Timing struct {
	AutoRaiseMS    int `toml:"auto_raise_ms"`
	AutoLowerMS    int `toml:"auto_lower_ms"`
	AutoExpandMS   int `toml:"auto_expand_ms"`
	AutoCollapseMS int `toml:"auto_collapse_ms"`
}

type Drag struct {
	DetachThreshold int `toml:"detach_threshold"`
}

type Store struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	Key           string `toml:"key"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Screen:     Screen{Width: 1280, Height: 1024, IconSize: 64},
		Dock:       DockPrefs{Side: "left", Enabled: true},
		Clip:       ClipPrefs{Enabled: true},
		Workspaces: Workspaces{Count: 4},
		Timing: Timing{
			AutoRaiseMS:    int(dock.DefaultTiming.AutoRaise / time.Millisecond),
			AutoLowerMS:    int(dock.DefaultTiming.AutoLower / time.Millisecond),
			AutoExpandMS:   int(dock.DefaultTiming.AutoExpand / time.Millisecond),
			AutoCollapseMS: int(dock.DefaultTiming.AutoCollapse / time.Millisecond),
		},
		Drag:  Drag{DetachThreshold: dock.DefaultDetachThreshold},
		Store: Store{Backend: "file", Key: "default"},
		Log:   Log{Level: "info"},
	}
}

// DefaultPath returns ~/.config/dockworks/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfig, err, "get home dir")
	}
	return filepath.Join(home, ".config", "dockworks", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path reads
// [DefaultPath] when it exists.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		if _, err := os.Stat(p); err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "read %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "decode config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var backends = []string{"memory", "file", "redis", "mongo"}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	s := c.Screen
	if s.IconSize <= 0 {
		return errors.New(errors.ErrCodeConfig, "screen.icon_size must be positive, got %d", s.IconSize)
	}
	if s.Width < s.IconSize || s.Height < s.IconSize {
		return errors.New(errors.ErrCodeConfig, "screen %dx%d is smaller than one icon", s.Width, s.Height)
	}
	for i, h := range s.Heads {
		if h.W <= 0 || h.H <= 0 {
			return errors.New(errors.ErrCodeConfig, "screen.heads[%d] is empty", i)
		}
	}
	if _, ok := parseSide(c.Dock.Side); !ok {
		return errors.New(errors.ErrCodeConfig, "dock.side must be left or right, got %q", c.Dock.Side)
	}
	if c.Workspaces.Count < 1 {
		return errors.New(errors.ErrCodeConfig, "workspaces.count must be at least 1, got %d", c.Workspaces.Count)
	}
	for _, name := range c.Workspaces.Names {
		if err := errors.ValidateName(name); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "workspaces.names")
		}
	}
	t := c.Timing
	if t.AutoRaiseMS < 0 || t.AutoLowerMS < 0 || t.AutoExpandMS < 0 || t.AutoCollapseMS < 0 {
		return errors.New(errors.ErrCodeConfig, "timing delays cannot be negative")
	}
	if c.Drag.DetachThreshold < 1 {
		return errors.New(errors.ErrCodeConfig, "drag.detach_threshold must be at least 1, got %d", c.Drag.DetachThreshold)
	}
	if !slices.Contains(backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeConfig, "store.backend must be one of %s, got %q", strings.Join(backends, ", "), c.Store.Backend)
	}
	if err := errors.ValidateStoreKey(c.Store.Key); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "store.key")
	}
	return nil
}

func parseSide(s string) (dock.Side, bool) {
	switch strings.ToLower(s) {
	case "", "left":
		return dock.Left, true
	case "right":
		return dock.Right, true
	}
	return dock.Left, false
}

// Geometry returns a static geometry provider for the configured screen.
func (c *Config) Geometry() *geometry.Static {
	g := geometry.NewStatic(c.Screen.Width, c.Screen.Height, c.Screen.IconSize)
	if len(c.Screen.Heads) > 0 {
		heads := make([]geometry.Rect, len(c.Screen.Heads))
		for i, h := range c.Screen.Heads {
			heads[i] = geometry.Rect{X: h.X, Y: h.Y, W: h.W, H: h.H}
		}
		g = g.WithHeads(heads...)
	}
	return g
}

// DockTiming converts the millisecond delays.
func (c *Config) DockTiming() dock.Timing {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return dock.Timing{
		AutoRaise:    ms(c.Timing.AutoRaiseMS),
		AutoLower:    ms(c.Timing.AutoLowerMS),
		AutoExpand:   ms(c.Timing.AutoExpandMS),
		AutoCollapse: ms(c.Timing.AutoCollapseMS),
	}
}

// DesktopOptions fills the configuration-derived fields of [dock.Options].
// Geometry is set from [Config.Geometry] unless geo is non-nil.
func (c *Config) DesktopOptions(geo geometry.Provider) dock.Options {
	if geo == nil {
		geo = c.Geometry()
	}
	side, _ := parseSide(c.Dock.Side)
	opts := dock.Options{
		Geometry:        geo,
		Timing:          c.DockTiming(),
		Workspaces:      c.Workspaces.Count,
		WorkspaceNames:  c.Workspaces.Names,
		DockSide:        side,
		DockY:           c.Dock.Y,
		NoDock:          !c.Dock.Enabled,
		NoClip:          !c.Clip.Enabled,
		DetachThreshold: c.Drag.DetachThreshold,
	}
	if c.Clip.X != nil || c.Clip.Y != nil {
		origin := geometry.Point{X: geo.ScreenBounds().Right() - geo.IconSize()}
		if c.Clip.X != nil {
			origin.X = *c.Clip.X
		}
		if c.Clip.Y != nil {
			origin.Y = *c.Clip.Y
		}
		opts.ClipOrigin = &origin
	}
	return opts
}

// StoreConfig returns the store backend settings.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}
