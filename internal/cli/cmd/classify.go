package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipsense/internal/classifier"
	"github.com/berrythewa/clipsense/internal/types"
)

type classification struct {
	Subtype  types.Subtype          `json:"subtype"`
	Metadata *types.ContentMetadata `json:"metadata,omitempty"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text without recording it",
		Long: `Run the content classifier on the given text and print the subtype
with any extracted metadata. Reads standard input when no text is given or
the only argument is "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				text = string(data)
			}

			res := classifier.Classify(text)
			out := classification{Subtype: res.Subtype}
			if !res.Metadata.Empty() {
				out.Metadata = res.Metadata
			}
			if useJSON || out.Metadata != nil {
				return printJSON(out)
			}
			fmt.Fprintln(os.Stdout, out.Subtype)
			return nil
		},
	}
}
