package config

import "sort"

var Presets = map[string]*Config{
	"straight": {
		Profile: "khepera3", Integrator: "arc", Supervisor: "constant", Dt: 0.05, Duration: 10.0,
		Command: CommandConfig{VL: 5, VR: 5},
	},
	"spin": {
		Profile: "khepera3", Integrator: "arc", Supervisor: "constant", Dt: 0.05, Duration: 5.0,
		Command: CommandConfig{VL: -4, VR: 4},
	},
	"arc": {
		Profile: "khepera3", Integrator: "arc", Supervisor: "constant", Dt: 0.05, Duration: 20.0,
		Command: CommandConfig{VL: 6, VR: 9},
	},
	"arena": {
		Profile: "khepera3", Integrator: "rk4", Supervisor: "constant", Dt: 0.02, Duration: 8.0,
		Command: CommandConfig{VL: 3, VR: 3},
		World:   WorldConfig{Arena: 0.8, WallThickness: 0.02},
	},
	"saturate": {
		Profile: "khepera3", Integrator: "euler", Supervisor: "constant", Dt: 0.05, Duration: 5.0,
		Command: CommandConfig{VL: 1000, VR: 1000},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.World.Obstacles = append([]RectConfig(nil), p.World.Obstacles...)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
