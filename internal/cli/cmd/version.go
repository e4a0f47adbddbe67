package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, set by main
var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

// SetVersionInfo allows setting version info from outside
func SetVersionInfo(v, bt, c string) {
	version = v
	buildTime = bt
	commit = c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// no config or logger needed
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			if useJSON {
				printJSON(map[string]string{
					"version":    version,
					"build_time": buildTime,
					"commit":     commit,
					"go":         runtime.Version(),
				})
				return
			}
			fmt.Printf("ClipSense\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Build Time: %s\n", buildTime)
			fmt.Printf("Commit:     %s\n", commit)
			fmt.Printf("Go:         %s\n", runtime.Version())
		},
	}
}
