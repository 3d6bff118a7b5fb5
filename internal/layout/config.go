package layout

import "github.com/msalah0e/skillgraph/internal/config"

// Config tunes the simulation. Zero values are replaced by defaults in New.
type Config struct {
	Spacing         float64 // many-body repulsion magnitude; charge strength is -Spacing
	LinkDistance    float64 // rest length between two non-category nodes
	HubLinkDistance float64 // rest length when either endpoint is a category
	CollideScale    float64 // collision radius = size*CollideScale + CollidePadding
	CollidePadding  float64
	CenterStrength  float64
	AlphaDecay      float64
	VelocityDecay   float64
	AlphaMin        float64
	AlphaTarget     float64
	CooldownTicks   int // 0 means no tick limit
	Theta           float64
	Seed            string // "phyllotaxis" or "eades"
}

// DefaultConfig returns the tuning used by the widget.
func DefaultConfig() Config {
	return Config{
		Spacing:         125,
		LinkDistance:    80,
		HubLinkDistance: 120,
		CollideScale:    2,
		CollidePadding:  30,
		CenterStrength:  0.05,
		AlphaDecay:      0.02,
		VelocityDecay:   0.3,
		AlphaMin:        0.001,
		CooldownTicks:   100,
		Theta:           0.9,
		Seed:            SeedPhyllotaxis,
	}
}

// FromConfig maps the [layout] config section onto a Config.
func FromConfig(c config.LayoutConfig) Config {
	cfg := DefaultConfig()
	cfg.Spacing = c.Spacing
	cfg.LinkDistance = c.LinkDistance
	cfg.HubLinkDistance = c.HubLinkDistance
	cfg.CollidePadding = c.CollidePadding
	cfg.CenterStrength = c.CenterStrength
	cfg.AlphaDecay = c.AlphaDecay
	cfg.VelocityDecay = c.VelocityDecay
	cfg.CooldownTicks = c.CooldownTicks
	cfg.Seed = c.Seed
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Spacing <= 0 {
		c.Spacing = d.Spacing
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.HubLinkDistance <= 0 {
		c.HubLinkDistance = d.HubLinkDistance
	}
	if c.CollideScale <= 0 {
		c.CollideScale = d.CollideScale
	}
	if c.AlphaDecay <= 0 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.VelocityDecay <= 0 {
		c.VelocityDecay = d.VelocityDecay
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.Theta <= 0 {
		c.Theta = d.Theta
	}
	if c.Seed == "" {
		c.Seed = d.Seed
	}
	return c
}
