package parallel

import (
	"context"

	"github.com/gogpu/dither"
)

// ApplyAll dithers every source with reg on pool. The result has one entry
// per source; entries whose job was skipped by cancellation are nil.
func ApplyAll(ctx context.Context, pool *Pool, reg *dither.Registry, srcs []*dither.PixelBuffer, s dither.Settings) ([]*dither.PixelBuffer, error) {
	out := make([]*dither.PixelBuffer, len(srcs))
	err := pool.Run(ctx, len(srcs), func(_ context.Context, i int) error {
		out[i] = reg.Apply(srcs[i], s)
		return nil
	})
	return out, err
}
