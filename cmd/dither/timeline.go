package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/keyframe"
)

// timelineFields are the interpolated parameters the timeline can plot.
var timelineFields = map[string]func(dither.Settings) float64{
	"threshold":        func(s dither.Settings) float64 { return float64(s.Threshold()) },
	"diffusion_factor": func(s dither.Settings) float64 { return s.DiffusionFactor() },
	"matrix_size":      func(s dither.Settings) float64 { return float64(s.MatrixSize()) },
	"color_reduction":  func(s dither.Settings) float64 { return float64(s.ColorReduction()) },
	"noise_amount":     func(s dither.Settings) float64 { return s.NoiseAmount() },
	"passes":           func(s dither.Settings) float64 { return float64(s.Passes()) },
}

func fieldNames() []string {
	names := make([]string, 0, len(timelineFields))
	for name := range timelineFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func newTimelineCmd(opts *globalOptions) *cobra.Command {
	var (
		field    string
		duration float64
		samples  int
		height   int
		width    int
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Plot a keyframed parameter over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, ok := timelineFields[field]
			if !ok {
				return fmt.Errorf("unknown field %q (want one of %s)", field, strings.Join(fieldNames(), ", "))
			}
			doc, err := loadDocument(cmd, opts, nil)
			if err != nil {
				return err
			}
			track, base := doc.Track(), doc.BaseSettings()
			keys := track.Keyframes()

			if duration <= 0 {
				duration = 10
				if len(keys) > 0 {
					duration = max(keys[len(keys)-1].Time, 1)
				}
			}
			samples = max(samples, 2)

			data := make([]float64, samples)
			for i := range data {
				t := duration * float64(i) / float64(samples-1)
				data[i] = value(keyframe.Interpolate(t, track, base))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, asciigraph.Plot(data,
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(fmt.Sprintf("%s over %s", field, keyframe.FormatTime(duration)))))
			fmt.Fprintln(w)

			if len(keys) == 0 {
				fmt.Fprintln(w, "no keyframes: every frame uses the base settings")
				return nil
			}
			fmt.Fprintf(w, "%d keyframes:\n", len(keys))
			for _, k := range keys {
				fmt.Fprintf(w, "  %s  %s=%g  %s\n",
					keyframe.FormatTime(k.Time), field, value(k.Settings), k.Settings.Algorithm())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "threshold", "parameter to plot: "+strings.Join(fieldNames(), ", "))
	cmd.Flags().Float64Var(&duration, "duration", 0, "seconds to plot (0 ends at the last keyframe)")
	cmd.Flags().IntVar(&samples, "samples", 60, "sample count")
	cmd.Flags().IntVar(&height, "height", 10, "plot height in rows")
	cmd.Flags().IntVar(&width, "width", 60, "plot width in columns")
	return cmd
}
