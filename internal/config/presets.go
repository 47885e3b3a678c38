package config

import (
	"maps"
	"slices"

	"github.com/gogpu/dither"
)

// Preset is a named look.
type Preset struct {
	Name        string
	Description string
	Settings    dither.Settings
}

var builtinPresets = map[string]Preset{
	"classic-mac": {
		Name:        "classic-mac",
		Description: "1-bit Atkinson, as on early compact Macs",
		Settings:    dither.DefaultSettings().WithAlgorithm(dither.Atkinson).WithColorReduction(1).WithDiffusionFactor(1),
	},
	"newspaper": {
		Name:        "newspaper",
		Description: "Coarse halftone screen",
		Settings:    dither.DefaultSettings().WithAlgorithm(dither.Halftone).WithMatrixSize(8),
	},
	"gameboy": {
		Name:        "gameboy",
		Description: "4x4 Bayer over a 2-bit palette",
		Settings:    dither.DefaultSettings().WithAlgorithm(dither.Bayer).WithMatrixSize(4).WithColorReduction(2),
	},
	"noir": {
		Name:        "noir",
		Description: "High-contrast Floyd-Steinberg",
		Settings:    dither.DefaultSettings().WithThreshold(110).WithDiffusionFactor(0.9).WithColorReduction(1),
	},
	"grain": {
		Name:        "grain",
		Description: "Random threshold with film grain noise",
		Settings:    dither.DefaultSettings().WithAlgorithm(dither.Random).WithNoiseAmount(0.15),
	},
	"soft": {
		Name:        "soft",
		Description: "Stucki with damped error",
		Settings:    dither.DefaultSettings().WithAlgorithm(dither.Stucki).WithDiffusionFactor(0.5),
	},
	"hilbert": {
		Name:        "hilbert",
		Description: "Riemersma error diffusion along a Hilbert curve",
		Settings:    dither.DefaultSettings().WithAlgorithm(dither.Riemersma),
	},
}

// Presets returns the built-in presets sorted by name.
func Presets() []Preset {
	names := slices.Sorted(maps.Keys(builtinPresets))
	out := make([]Preset, len(names))
	for i, n := range names {
		out[i] = builtinPresets[n]
	}
	return out
}

// BuiltinPreset returns the built-in preset called name.
func BuiltinPreset(name string) (Preset, bool) {
	p, ok := builtinPresets[name]
	return p, ok
}

// LookupPreset resolves name against the document presets first and the
// built-in presets second. Document presets apply on top of defaults.
func (d *Document) LookupPreset(name string) (Preset, bool) {
	if name == "" {
		return Preset{}, false
	}
	for _, p := range d.Presets {
		if p.Name == name {
			return Preset{
				Name:        p.Name,
				Description: p.Description,
				Settings:    p.Settings.Apply(dither.DefaultSettings()),
			}, true
		}
	}
	return BuiltinPreset(name)
}

// AddPreset stores s as a document preset, replacing one with the same
// name.
func (d *Document) AddPreset(name, description string, s dither.Settings) {
	doc := PresetDoc{Name: name, Description: description, Settings: SettingsDocOf(s)}
	for i := range d.Presets {
		if d.Presets[i].Name == name {
			d.Presets[i] = doc
			return
		}
	}
	d.Presets = append(d.Presets, doc)
}

// DeletePreset removes the document preset called name.
func (d *Document) DeletePreset(name string) bool {
	n := len(d.Presets)
	d.Presets = slices.DeleteFunc(d.Presets, func(p PresetDoc) bool { return p.Name == name })
	return len(d.Presets) != n
}
