package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipsense/internal/imaging"
)

func newIngestCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Normalize an image payload into the image directory",
		Long: `Store an image payload the way the detector does. Encoded images are
decoded and re-encoded as PNG. Headerless buffers are treated as RGBA pixels;
pass --width and --height when the dimensions are known, otherwise they are
inferred from the pixel count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if err := cfg.SystemPaths.EnsureDirs(); err != nil {
				return err
			}

			in, err := imaging.NewIngester(imaging.Options{
				Root:            cfg.SystemPaths.DataDir,
				KeepUndecodable: cfg.Images.KeepUndecodable,
				Logger:          logger.Named("imaging"),
			})
			if err != nil {
				return err
			}
			img, err := in.Ingest(data, width, height)
			if err != nil {
				return err
			}
			if useJSON {
				return printJSON(img)
			}
			fmt.Printf("%s (%dx%d %s, %d bytes)\n", in.Resolve(img.Path), img.Width, img.Height, img.Format, img.Size)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "pixel width of a raw buffer")
	cmd.Flags().IntVar(&height, "height", 0, "pixel height of a raw buffer")
	return cmd
}
