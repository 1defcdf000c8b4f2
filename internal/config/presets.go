package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"coursework": func(*Config) {},
	"quick": func(c *Config) {
		c.Interp.Samples = 200
		c.Convolution.Exponent = 10
		c.ODE.Step = 1e-2
	},
	"fine": func(c *Config) {
		c.Interp.Samples = 4000
		c.Convolution.Exponent = 14
		c.ODE.Step = 5e-4
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names in order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
