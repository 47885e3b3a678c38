// Command dither renders dithered images from the command line.
//
// Usage:
//
//	dither apply in.png out.png --preset classic-mac
//	dither batch out/ a.jpg b.jpg c.jpg --algorithm bayer
//	dither render in.png out.png --backend auto --split 0.5 --show-split
//	dither timeline --config session.yaml --field threshold
//	dither algorithms
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/dither/internal/config"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	logLevel   string
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "dither",
		Short:         "dithering engine: static images, GPU frames and keyframed timelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level",
		config.Get(config.EnvLogLevel, "warn"), "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config",
		config.Get(config.EnvConfig, ""), "session document (yaml)")

	rootCmd.AddCommand(
		newApplyCmd(opts),
		newBatchCmd(opts),
		newRenderCmd(opts),
		newTimelineCmd(opts),
		newAlgorithmsCmd(),
		newPresetsCmd(opts),
	)
	return rootCmd
}

func main() {
	config.LoadDotEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dither:", err)
		os.Exit(1)
	}
}
