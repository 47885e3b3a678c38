package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/internal/config"
	"github.com/gogpu/dither/internal/imageio"
)

// sizeFlags bound the source image before dithering.
type sizeFlags struct {
	width  int
	height int
}

func (f *sizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "fit the source within this width (0 keeps it)")
	cmd.Flags().IntVar(&f.height, "height", 0, "fit the source within this height (0 keeps it)")
}

// prepare loads path, fits it and applies the document adjustments.
func (f *sizeFlags) prepare(path string, doc *config.Document) (*dither.PixelBuffer, error) {
	src, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	src = imageio.Fit(src, f.width, f.height)
	return doc.Adjustments.Adjustments().Apply(src), nil
}

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var (
		flags settingsFlags
		size  sizeFlags
	)

	cmd := &cobra.Command{
		Use:   "apply IN OUT",
		Short: "Dither one image on the CPU",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, opts, &flags)
			if err != nil {
				return err
			}
			src, err := size.prepare(args[0], doc)
			if err != nil {
				return err
			}

			s := doc.BaseSettings()
			start := time.Now()
			out := dither.Apply(src, s)
			cliLogger().Info("dithered",
				"in", args[0],
				"algorithm", s.Algorithm(),
				"size", fmt.Sprintf("%dx%d", out.Width(), out.Height()),
				"elapsed", time.Since(start))

			if err := imageio.Save(args[1], out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %dx%d)\n",
				args[1], s.Algorithm().DisplayName(), out.Width(), out.Height())
			return nil
		},
	}
	flags.register(cmd)
	size.register(cmd)
	return cmd
}
