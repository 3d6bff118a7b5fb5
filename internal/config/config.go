package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds skillgraph configuration.
type Config struct {
	UI       UIConfig       `toml:"ui"`
	Layout   LayoutConfig   `toml:"layout"`
	View     ViewConfig     `toml:"view"`
	Render   RenderConfig   `toml:"render"`
	Serve    ServeConfig    `toml:"serve"`
	Log      LogConfig      `toml:"log"`
	Parallel ParallelConfig `toml:"parallel"`
}

// UIConfig controls display options.
type UIConfig struct {
	Emoji bool `toml:"emoji"`
	Color bool `toml:"color"`
}

// LayoutConfig tunes the force simulation.
type LayoutConfig struct {
	Spacing         float64 `toml:"spacing"`
	LinkDistance    float64 `toml:"link_distance"`
	HubLinkDistance float64 `toml:"hub_link_distance"`
	CollidePadding  float64 `toml:"collide_padding"`
	CenterStrength  float64 `toml:"center_strength"`
	AlphaDecay      float64 `toml:"alpha_decay"`
	VelocityDecay   float64 `toml:"velocity_decay"`
	CooldownTicks   int     `toml:"cooldown_ticks"`
	Seed            string  `toml:"seed"` // "phyllotaxis", "eades"
}

// ViewConfig holds the initial view state and controller timings.
type ViewConfig struct {
	ShowAllLabels    bool    `toml:"show_all_labels"`
	ShowExtended     bool    `toml:"show_extended"`
	MinHeight        int     `toml:"min_height"`
	HeightRatio      float64 `toml:"height_ratio"`
	SettleDelayMS    int     `toml:"settle_delay_ms"`
	ZoomMS           int     `toml:"zoom_ms"`
	CenterMS         int     `toml:"center_ms"`
	NativeFullscreen bool    `toml:"native_fullscreen"`
}

// RenderConfig controls snapshot output.
type RenderConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Background string  `toml:"background"`
	Ticks      int     `toml:"ticks"`
	Padding    float64 `toml:"padding"`
	Legend     bool    `toml:"legend"`
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"` // snapshot requests per second
	Burst     int     `toml:"burst"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`
}

// ParallelConfig controls concurrent rendering.
type ParallelConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UI: UIConfig{Emoji: true, Color: true},
		Layout: LayoutConfig{
			Spacing:         125,
			LinkDistance:    80,
			HubLinkDistance: 120,
			CollidePadding:  30,
			CenterStrength:  0.05,
			AlphaDecay:      0.02,
			VelocityDecay:   0.3,
			CooldownTicks:   100,
			Seed:            "phyllotaxis",
		},
		View: ViewConfig{
			ShowAllLabels:    true,
			ShowExtended:     false,
			MinHeight:        600,
			HeightRatio:      0.6,
			SettleDelayMS:    100,
			ZoomMS:           800,
			CenterMS:         1000,
			NativeFullscreen: true,
		},
		Render: RenderConfig{
			Width:      1200,
			Height:     800,
			Background: "#111827",
			Ticks:      300,
			Padding:    40,
			Legend:     true,
		},
		Serve:    ServeConfig{Addr: ":8080", RateLimit: 5, Burst: 10},
		Log:      LogConfig{Level: "info"},
		Parallel: ParallelConfig{Concurrency: 4},
	}
}

// Validate clamps values into the ranges the widget supports.
func (c *Config) Validate() {
	d := Default()
	c.Layout.Spacing = clamp(c.Layout.Spacing, 50, 200)
	if c.Layout.LinkDistance <= 0 {
		c.Layout.LinkDistance = d.Layout.LinkDistance
	}
	if c.Layout.HubLinkDistance <= 0 {
		c.Layout.HubLinkDistance = d.Layout.HubLinkDistance
	}
	if c.Layout.CollidePadding < 0 {
		c.Layout.CollidePadding = 0
	}
	if c.Layout.AlphaDecay <= 0 || c.Layout.AlphaDecay >= 1 {
		c.Layout.AlphaDecay = d.Layout.AlphaDecay
	}
	if c.Layout.VelocityDecay <= 0 || c.Layout.VelocityDecay >= 1 {
		c.Layout.VelocityDecay = d.Layout.VelocityDecay
	}
	if c.Layout.CooldownTicks < 0 {
		c.Layout.CooldownTicks = 0
	}
	if c.Layout.Seed != "eades" {
		c.Layout.Seed = "phyllotaxis"
	}
	if c.View.MinHeight <= 0 {
		c.View.MinHeight = d.View.MinHeight
	}
	if c.View.HeightRatio <= 0 {
		c.View.HeightRatio = d.View.HeightRatio
	}
	if c.Render.Width <= 0 {
		c.Render.Width = d.Render.Width
	}
	if c.Render.Height <= 0 {
		c.Render.Height = d.Render.Height
	}
	if c.Render.Ticks < 0 {
		c.Render.Ticks = 0
	}
	if c.Parallel.Concurrency < 1 {
		c.Parallel.Concurrency = d.Parallel.Concurrency
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ConfigDir returns the skillgraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "skillgraph")
}

// CatalogDir returns the directory holding user catalog overlays.
func CatalogDir() string {
	return filepath.Join(ConfigDir(), "catalog")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the user config file and then any .skillgraph.toml found in the
// working directory or its parents. Missing files leave defaults in place.
func Load() *Config {
	cfg := Default()

	if data, err := os.ReadFile(configPath()); err == nil {
		_ = toml.Unmarshal(data, cfg)
	}
	if path := findProjectConfig(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = toml.Unmarshal(data, cfg)
		}
	}

	cfg.Validate()
	return cfg
}

// findProjectConfig walks up from the working directory looking for .skillgraph.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ".skillgraph.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(configPath()); err == nil {
		return nil
	}
	return Save(Default())
}
