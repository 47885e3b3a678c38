package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/internal/config"
	"github.com/gogpu/dither/internal/imageio"
	"github.com/gogpu/dither/internal/parallel"
)

func newBatchCmd(opts *globalOptions) *cobra.Command {
	var (
		flags   settingsFlags
		size    sizeFlags
		workers int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "batch OUTDIR IN...",
		Short: "Dither many images in parallel",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, opts, &flags)
			if err != nil {
				return err
			}
			outDir, inputs := args[0], args[1:]
			s := doc.BaseSettings()

			pool := parallel.NewPool(workers)
			defer pool.Close()

			id := uuid.New()
			log := cliLogger().With("batch", id.String())
			log.Info("batch started", "images", len(inputs), "workers", pool.Workers(), "algorithm", s.Algorithm())

			written, err := runBatch(cmd.Context(), pool, doc, &size, s, inputs, func(in string) string {
				return outPath(outDir, in, format)
			})
			log.Info("batch finished", "written", written, "failed", len(inputs)-written)
			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d/%d images written to %s\n",
				id, written, len(inputs), outDir)
			return err
		},
	}
	flags.register(cmd)
	size.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "j", config.GetInt(config.EnvWorkers, 0), "worker count (0 uses GOMAXPROCS)")
	cmd.Flags().StringVar(&format, "format", "png", "output format: png or jpg")
	return cmd
}

// runBatch decodes inputs, dithers the ones that loaded with
// parallel.ApplyAll and saves the results. It returns the number of files
// written and every load, dither and save error joined.
func runBatch(ctx context.Context, pool *parallel.Pool, doc *config.Document, size *sizeFlags,
	s dither.Settings, inputs []string, out func(in string) string,
) (int, error) {
	srcs := make([]*dither.PixelBuffer, len(inputs))
	loadErr := pool.Run(ctx, len(inputs), func(_ context.Context, i int) error {
		src, err := size.prepare(inputs[i], doc)
		if err != nil {
			return err
		}
		srcs[i] = src
		return nil
	})

	var (
		loaded []string
		bufs   []*dither.PixelBuffer
	)
	for i, src := range srcs {
		if src != nil {
			loaded = append(loaded, inputs[i])
			bufs = append(bufs, src)
		}
	}

	dithered, applyErr := parallel.ApplyAll(ctx, pool, dither.DefaultRegistry(), bufs, s)

	var written atomic.Int64
	saveErr := pool.Run(ctx, len(dithered), func(_ context.Context, i int) error {
		if dithered[i] == nil {
			return nil
		}
		if err := imageio.Save(out(loaded[i]), dithered[i]); err != nil {
			return err
		}
		written.Add(1)
		return nil
	})
	return int(written.Load()), errors.Join(loadErr, applyErr, saveErr)
}

// outPath maps in to OUTDIR/<base>.<format>.
func outPath(dir, in, format string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(dir, base+"."+strings.TrimPrefix(format, "."))
}
