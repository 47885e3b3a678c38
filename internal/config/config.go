// Package config reads and writes YAML documents describing a dithering
// session: base settings, pre-dither adjustments, named presets and a
// keyframe track.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/keyframe"
)

// ErrUnknownAlgorithm is returned for an algorithm id outside the catalogue.
var ErrUnknownAlgorithm = errors.New("config: unknown algorithm")

// Document is the YAML form of a session.
type Document struct {
	Preset            string         `yaml:"preset,omitempty"`
	Settings          SettingsDoc    `yaml:"settings"`
	Adjustments       AdjustmentsDoc `yaml:"adjustments"`
	TemporalDithering bool           `yaml:"temporal_dithering"`
	Backend           string         `yaml:"backend,omitempty"`
	Presets           []PresetDoc    `yaml:"presets,omitempty"`
	Keyframes         []KeyframeDoc  `yaml:"keyframes,omitempty"`
}

// SettingsDoc is a partial dither.Settings. Omitted fields keep the value
// of the settings the document is applied to.
type SettingsDoc struct {
	Algorithm       string   `yaml:"algorithm,omitempty"`
	Threshold       *int     `yaml:"threshold,omitempty"`
	DiffusionFactor *float64 `yaml:"diffusion_factor,omitempty"`
	MatrixSize      *int     `yaml:"matrix_size,omitempty"`
	ColorReduction  *int     `yaml:"color_reduction,omitempty"`
	Serpentine      *bool    `yaml:"serpentine,omitempty"`
	NoiseAmount     *float64 `yaml:"noise_amount,omitempty"`
	Passes          *int     `yaml:"passes,omitempty"`
	Seed            *int64   `yaml:"seed,omitempty"`
}

// AdjustmentsDoc is the YAML form of dither.Adjustments.
type AdjustmentsDoc struct {
	Brightness float64 `yaml:"brightness"`
	Contrast   float64 `yaml:"contrast"`
	Saturation float64 `yaml:"saturation"`
	Gamma      float64 `yaml:"gamma"`
	Sharpness  float64 `yaml:"sharpness"`
}

// PresetDoc is a user-defined named look.
type PresetDoc struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Settings    SettingsDoc `yaml:"settings"`
}

// KeyframeDoc anchors settings at a time in seconds. Its settings are
// applied on top of the document settings.
type KeyframeDoc struct {
	Time     float64     `yaml:"time"`
	Settings SettingsDoc `yaml:"settings"`
}

// Default returns a document with identity adjustments and no settings
// overrides, so BaseSettings yields dither.DefaultSettings.
func Default() *Document {
	return &Document{
		Adjustments: AdjustmentsDocOf(dither.DefaultAdjustments()),
	}
}

// Load reads the document at path. Fields the file omits keep their
// defaults.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Document, error) {
	doc := Default()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes doc to path.
func Save(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate reports algorithm ids that are not in the catalogue and
// presets that do not exist.
func (d *Document) Validate() error {
	if err := d.Settings.validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	for i, p := range d.Presets {
		if p.Name == "" {
			return fmt.Errorf("config: presets[%d]: missing name", i)
		}
		if err := p.Settings.validate(); err != nil {
			return fmt.Errorf("presets[%d] %q: %w", i, p.Name, err)
		}
	}
	for i, k := range d.Keyframes {
		if err := k.Settings.validate(); err != nil {
			return fmt.Errorf("keyframes[%d]: %w", i, err)
		}
	}
	if d.Preset != "" {
		if _, ok := d.LookupPreset(d.Preset); !ok {
			return fmt.Errorf("config: unknown preset %q", d.Preset)
		}
	}
	return nil
}

// BaseSettings returns the document settings: defaults, then the selected
// preset, then the explicit settings block.
func (d *Document) BaseSettings() dither.Settings {
	s := dither.DefaultSettings()
	if p, ok := d.LookupPreset(d.Preset); ok {
		s = p.Settings
	}
	return d.Settings.Apply(s)
}

// Track builds the keyframe track of the document.
func (d *Document) Track() *keyframe.Track {
	base := d.BaseSettings()
	track := keyframe.NewTrack()
	for _, k := range d.Keyframes {
		track.Set(k.Time, k.Settings.Apply(base))
	}
	return track
}

// SetTrack replaces the keyframes with the contents of track. Each
// keyframe is stored in full.
func (d *Document) SetTrack(track *keyframe.Track) {
	keys := track.Keyframes()
	d.Keyframes = make([]KeyframeDoc, len(keys))
	for i, k := range keys {
		d.Keyframes[i] = KeyframeDoc{Time: k.Time, Settings: SettingsDocOf(k.Settings)}
	}
}

// SettingsDocOf returns a document with every field of s set.
func SettingsDocOf(s dither.Settings) SettingsDoc {
	return SettingsDoc{
		Algorithm:       s.Algorithm().String(),
		Threshold:       dither.Ref(s.Threshold()),
		DiffusionFactor: dither.Ref(s.DiffusionFactor()),
		MatrixSize:      dither.Ref(s.MatrixSize()),
		ColorReduction:  dither.Ref(s.ColorReduction()),
		Serpentine:      dither.Ref(s.Serpentine()),
		NoiseAmount:     dither.Ref(s.NoiseAmount()),
		Passes:          dither.Ref(s.Passes()),
		Seed:            dither.Ref(s.Seed()),
	}
}

// Patch converts d to a dither.Patch. Unknown algorithm ids are passed
// through and resolve to the fallback engine.
func (d SettingsDoc) Patch() dither.Patch {
	p := dither.Patch{
		Threshold:       d.Threshold,
		DiffusionFactor: d.DiffusionFactor,
		MatrixSize:      d.MatrixSize,
		ColorReduction:  d.ColorReduction,
		Serpentine:      d.Serpentine,
		NoiseAmount:     d.NoiseAmount,
		Passes:          d.Passes,
		Seed:            d.Seed,
	}
	if d.Algorithm != "" {
		a, ok := dither.ParseAlgorithm(d.Algorithm)
		if !ok {
			a = dither.Algorithm(d.Algorithm)
		}
		p.Algorithm = &a
	}
	return p
}

// Apply merges d into base. Values are clamped like any Settings value.
func (d SettingsDoc) Apply(base dither.Settings) dither.Settings {
	return base.Merge(d.Patch())
}

func (d SettingsDoc) validate() error {
	if d.Algorithm == "" {
		return nil
	}
	if _, ok := dither.ParseAlgorithm(d.Algorithm); !ok {
		return fmt.Errorf("%w %q", ErrUnknownAlgorithm, d.Algorithm)
	}
	return nil
}

// AdjustmentsDocOf returns the YAML form of a.
func AdjustmentsDocOf(a dither.Adjustments) AdjustmentsDoc {
	return AdjustmentsDoc{
		Brightness: a.Brightness,
		Contrast:   a.Contrast,
		Saturation: a.Saturation,
		Gamma:      a.Gamma,
		Sharpness:  a.Sharpness,
	}
}

// Adjustments returns the clamped adjustments.
func (d AdjustmentsDoc) Adjustments() dither.Adjustments {
	return dither.Adjustments{
		Brightness: d.Brightness,
		Contrast:   d.Contrast,
		Saturation: d.Saturation,
		Gamma:      d.Gamma,
		Sharpness:  d.Sharpness,
	}.Clamp()
}
