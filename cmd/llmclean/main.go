package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/llmclean/internal/config"
	"github.com/suykerbuyk/llmclean/internal/logging"
)

const version = "0.1.0"

// app holds state shared by every command of one invocation.
type app struct {
	verbose bool
	cfgPath string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "llmclean",
		Short: "Extract the code from language-model output",
		Long: `llmclean strips markdown fences, reasoning tags and prose lead-ins from
raw model completions, returning the primary payload and its content type.

Configuration: ~/.config/llmclean/config.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if a.cfgPath != "" {
				a.cfg, err = config.LoadFile(a.cfgPath)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			a.logger, err = logging.New(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (default ~/.config/llmclean/config.toml)")

	root.AddCommand(
		a.cleanCmd(),
		a.classifyCmd(),
		a.batchCmd(),
		a.watchCmd(),
		a.askCmd(),
		a.historyCmd(),
		a.statsCmd(),
		a.checkCmd(),
		a.initCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "llmclean v%s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "llmclean: %v\n", err)
		os.Exit(1)
	}
}
