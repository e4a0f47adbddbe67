package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipsense/internal/ipc"
	"github.com/berrythewa/clipsense/internal/types"
	"github.com/berrythewa/clipsense/pkg/format"
)

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Expire old entries now",
		Long: `Delete non-favorite entries older than expiry.text_days (text and file
lists) or expiry.image_days (images), together with their image files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result types.CleanupResult
			if err := dispatch(cmd.Context(), ipc.CmdCleanup, nil, &result); err != nil {
				return err
			}
			if useJSON {
				return printJSON(result)
			}
			fmt.Println(format.FormatCleanup(&result, outputOptions(false)))
			return nil
		},
	}
}
