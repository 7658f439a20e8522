package app

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	SPS   int
	Panel int
	Seed  int64
	// Set holds key=value overrides handed to the sim factory.
	Set []string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "erosion", Scale: 4, TPS: 60, SPS: 4, Panel: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.IntVar(&c.SPS, "sps", c.SPS, "simulation steps per second")
	fs.IntVar(&c.Panel, "panel", c.Panel, "parameter panel width in pixels, 0 hides it")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset, 0 uses the configured seed")
	fs.StringArrayVar(&c.Set, "set", c.Set, "sim parameter override as key=value, repeatable")
}

// Overrides parses the --set pairs into the map accepted by sim factories.
func (c *Config) Overrides() (map[string]string, error) {
	return ParseOverrides(c.Set)
}

// ParseOverrides splits key=value pairs. Later pairs win.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("app: override %q is not key=value", pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
