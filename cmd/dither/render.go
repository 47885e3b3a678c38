package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/dither/internal/imageio"
	"github.com/gogpu/dither/keyframe"
	"github.com/gogpu/dither/pipeline"
	"github.com/gogpu/dither/playback"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		flags     settingsFlags
		size      sizeFlags
		backend   string
		split     float64
		showSplit bool
		at        float64
		temporal  bool
	)

	cmd := &cobra.Command{
		Use:   "render IN OUT",
		Short: "Render one frame through the shader pipeline",
		Long: `Render loads IN, renders it through the shader pipeline at --time on the
session keyframe track and writes the presented frame to OUT.

Without a GPU device the software backend evaluates the same programs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, opts, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				doc.Backend = backend
			}
			if cmd.Flags().Changed("temporal") {
				doc.TemporalDithering = temporal
			}
			b, err := pipeline.ParseBackend(doc.Backend)
			if err != nil {
				return err
			}

			src, err := size.prepare(args[0], doc)
			if err != nil {
				return err
			}

			p := pipeline.New(pipeline.WithBackend(b))
			defer p.Dispose()
			if err := p.Initialize(cmd.Context(), nil); err != nil {
				return err
			}

			player := playback.New(p,
				playback.WithFPS(0),
				playback.WithTrack(doc.Track()),
				playback.WithBaseSettings(doc.BaseSettings()),
				playback.WithTemporalDithering(doc.TemporalDithering),
				playback.WithSplit(split, showSplit))
			if err := player.Render(src, at); err != nil {
				return err
			}

			out, err := p.Frame()
			if err != nil {
				return err
			}
			if err := imageio.Save(args[1], out); err != nil {
				return err
			}
			s := player.SettingsAt(at)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s backend, %s at %s)\n",
				args[1], p.Backend(), s.Algorithm().DisplayName(), keyframe.FormatTime(at))
			return nil
		},
	}
	flags.register(cmd)
	size.register(cmd)
	cmd.Flags().StringVar(&backend, "backend", "auto", "auto, gpu or software")
	cmd.Flags().Float64Var(&split, "split", 0.5, "compare split position 0-1, used with --show-split")
	cmd.Flags().BoolVar(&showSplit, "show-split", false, "before/after compare: the source, color-reduced only, left of --split and dithered right of it")
	cmd.Flags().Float64Var(&at, "time", 0, "timeline position in seconds")
	cmd.Flags().BoolVar(&temporal, "temporal", false, "vary the threshold (diffusion) or matrix offset (ordered) with --time")
	return cmd
}
