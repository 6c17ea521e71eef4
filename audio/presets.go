package audio

import (
	"fmt"
	"sort"
)

// Device is a named control surface: anything with registered properties.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type patch map[string]interface{}

var patches = map[string]patch{
	// punchy low end, filter doing most of the work
	"fat-bass": patch{
		"osc1.wave":   "ramp",
		"osc1.range":  0.5,
		"osc2.wave":   "square",
		"osc2.range":  0.5,
		"osc3.wave":   "ramp",
		"osc3.range":  1.0,
		"osc3.volume": 0.4,
		"env.attack":  0.002,
		"env.decay":   0.25,
		"env.sustain": 0.0,
		"lp.cutoff":   350.0,
		"lp.contour":  2.5,
		"lp.attack":   0.005,
		"lp.decay":    0.3,
		"lp.sustain":  0.1,
	},
	// slow portamento lead with a long sustain
	"glide-lead": patch{
		"glide.on":    true,
		"glide.time":  0.18,
		"osc1.wave":   "shark",
		"osc2.wave":   "ramp",
		"osc3.wave":   "ramp",
		"osc3.volume": 0.0,
		"env.attack":  0.03,
		"env.decay":   0.4,
		"env.sustain": 0.8,
		"lp.cutoff":   1800.0,
		"lp.contour":  1.6,
		"lp.attack":   0.15,
		"lp.decay":    0.6,
		"lp.sustain":  0.5,
	},
	// osc3 modulates the other two instead of sounding
	"wobble": patch{
		"osc1.wave":     "square",
		"osc1.fm":       true,
		"osc2.wave":     "ramp",
		"osc2.fm":       true,
		"osc3.wave":     "triangle",
		"osc3.mod":      true,
		"osc3.range":    0.125,
		"osc3.track":    false,
		"osc3.modlevel": 0.6,
		"env.attack":    0.01,
		"env.sustain":   0.7,
		"lp.cutoff":     900.0,
		"lp.contour":    2.0,
	},
}

func LoadPatch(name string, d Device) error {
	p, ok := patches[name]
	if !ok {
		return fmt.Errorf("unknown patch: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Patches lists the built-in patch names in sorted order.
func Patches() []string {
	names := make([]string, 0, len(patches))
	for name := range patches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
