package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if useJSON {
					return printJSON(cfg)
				}
				enc := yaml.NewEncoder(os.Stdout)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(cfg)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration and data locations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if useJSON {
					return printJSON(cfg.SystemPaths)
				}
				p := cfg.SystemPaths
				fmt.Printf("Config:   %s\n", p.ActiveConfig)
				fmt.Printf("Data:     %s\n", p.DataDir)
				fmt.Printf("Images:   %s\n", p.ImagesDir)
				fmt.Printf("Database: %s\n", cfg.Storage.DBPath)
				fmt.Printf("Logs:     %s\n", p.LogDir)
				fmt.Printf("Socket:   %s\n", p.SocketPath)
				return nil
			},
		},
	)
	return cmd
}
