package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/internal/config"
)

// settingsFlags override the session document from the command line.
type settingsFlags struct {
	preset          string
	algorithm       string
	threshold       int
	diffusionFactor float64
	matrixSize      int
	colorReduction  int
	serpentine      bool
	noiseAmount     float64
	passes          int
	seed            int64

	brightness float64
	contrast   float64
	saturation float64
	gamma      float64
	sharpness  float64
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	def := dither.DefaultSettings()
	fs := cmd.Flags()
	fs.StringVar(&f.preset, "preset", "", "named preset (see 'dither presets')")
	fs.StringVarP(&f.algorithm, "algorithm", "a", "", "algorithm id (see 'dither algorithms')")
	fs.IntVar(&f.threshold, "threshold", def.Threshold(), "binarization threshold 0-255")
	fs.Float64Var(&f.diffusionFactor, "diffusion", def.DiffusionFactor(), "error diffusion factor 0-1")
	fs.IntVar(&f.matrixSize, "matrix", def.MatrixSize(), "ordered matrix size: 2, 4, 8 or 16")
	fs.IntVar(&f.colorReduction, "bits", def.ColorReduction(), "bits per channel before dithering 1-8")
	fs.BoolVar(&f.serpentine, "serpentine", def.Serpentine(), "alternate scan direction per row")
	fs.Float64Var(&f.noiseAmount, "noise", def.NoiseAmount(), "position noise 0-1")
	fs.IntVar(&f.passes, "passes", def.Passes(), "engine passes 1-4")
	fs.Int64Var(&f.seed, "seed", 0, "random engine seed, 0 for nondeterministic")

	fs.Float64Var(&f.brightness, "brightness", 0, "brightness -100..100")
	fs.Float64Var(&f.contrast, "contrast", 0, "contrast -100..100")
	fs.Float64Var(&f.saturation, "saturation", 0, "saturation -100..100")
	fs.Float64Var(&f.gamma, "gamma", 1, "gamma 0.1..3")
	fs.Float64Var(&f.sharpness, "sharpness", 0, "sharpness 0..100")
}

// apply overrides doc with every flag set on cmd.
func (f *settingsFlags) apply(cmd *cobra.Command, doc *config.Document) error {
	fs := cmd.Flags()
	s := &doc.Settings
	if fs.Changed("preset") {
		doc.Preset = f.preset
	}
	if fs.Changed("algorithm") {
		s.Algorithm = f.algorithm
	}
	if fs.Changed("threshold") {
		s.Threshold = dither.Ref(f.threshold)
	}
	if fs.Changed("diffusion") {
		s.DiffusionFactor = dither.Ref(f.diffusionFactor)
	}
	if fs.Changed("matrix") {
		s.MatrixSize = dither.Ref(f.matrixSize)
	}
	if fs.Changed("bits") {
		s.ColorReduction = dither.Ref(f.colorReduction)
	}
	if fs.Changed("serpentine") {
		s.Serpentine = dither.Ref(f.serpentine)
	}
	if fs.Changed("noise") {
		s.NoiseAmount = dither.Ref(f.noiseAmount)
	}
	if fs.Changed("passes") {
		s.Passes = dither.Ref(f.passes)
	}
	if fs.Changed("seed") {
		s.Seed = dither.Ref(f.seed)
	}

	a := &doc.Adjustments
	if fs.Changed("brightness") {
		a.Brightness = f.brightness
	}
	if fs.Changed("contrast") {
		a.Contrast = f.contrast
	}
	if fs.Changed("saturation") {
		a.Saturation = f.saturation
	}
	if fs.Changed("gamma") {
		a.Gamma = f.gamma
	}
	if fs.Changed("sharpness") {
		a.Sharpness = f.sharpness
	}
	return doc.Validate()
}

// loadDocument reads the session document, then applies environment and
// flag overrides.
func loadDocument(cmd *cobra.Command, opts *globalOptions, flags *settingsFlags) (*config.Document, error) {
	doc := config.Default()
	if opts.configPath != "" {
		var err error
		if doc, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := doc.ApplyEnv(); err != nil {
		return nil, err
	}
	if flags != nil {
		if err := flags.apply(cmd, doc); err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}
	}
	return doc, nil
}
