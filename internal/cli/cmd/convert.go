package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipsense/internal/imaging"
)

func newConvertCmd() *cobra.Command {
	var (
		to    string
		scale float64
		out   string
	)

	cmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Re-encode a stored image",
		Long: `Convert an image to PNG, JPEG or lossless WebP, optionally scaled. Relative paths such
as "imgs/<id>.png" are resolved against the data directory. The result is
written to --out, or printed as a data URI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.SystemPaths.DataDir, filepath.FromSlash(path))
			}

			img, err := imaging.ConvertFile(path, imaging.ConvertOptions{Format: to, Scale: scale})
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Println(img.DataURI())
				return nil
			}
			if err := os.WriteFile(out, img.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			if !quiet {
				fmt.Printf("Wrote %s (%dx%d %s)\n", out, img.Width, img.Height, img.Format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "format", imaging.FormatPNG, "output format (png, jpeg, webp)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "scale factor for both dimensions")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default prints a data URI)")
	return cmd
}
