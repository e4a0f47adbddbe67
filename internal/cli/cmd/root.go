package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/common"
	"github.com/berrythewa/clipsense/internal/config"
)

// daemonAnnotation marks long-running commands that log to file
const daemonAnnotation = "daemon"

var (
	// Global flags
	configFile string
	verbose    bool
	quiet      bool
	useJSON    bool

	// Shared resources
	cfg    *config.Config
	logger *zap.Logger
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clipsense",
		Short: "Clipboard history with content classification",
		Long: `ClipSense watches the clipboard and keeps a searchable history:
  • Text is classified (URL, email, color, code, JSON, timestamp...)
  • Images are normalized to PNG files
  • Repeated copies are folded into one entry with a copy count`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is <config dir>/clipsense/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "minimize output")
	root.PersistentFlags().BoolVar(&useJSON, "json", false, "output in JSON format")

	root.AddCommand(
		newRunCmd(),
		newStopCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newClassifyCmd(),
		newIngestCmd(),
		newConvertCmd(),
		newScanCmd(),
		newCleanupCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err = common.NewLogger(cfg, common.LoggerOptions{
		Verbose: verbose,
		Quiet:   quiet,
		Console: cmd.Annotations[daemonAnnotation] == "",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debug("Configuration loaded",
		zap.String("config", cfg.SystemPaths.ActiveConfig),
		zap.String("data_dir", cfg.SystemPaths.DataDir),
		zap.String("driver", cfg.Storage.Driver))
	return nil
}
