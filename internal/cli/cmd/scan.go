package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/clipboard"
	"github.com/berrythewa/clipsense/internal/imaging"
	"github.com/berrythewa/clipsense/internal/types"
	"github.com/berrythewa/clipsense/pkg/format"
)

type scanResult struct {
	Outcome string       `json:"outcome"`
	Entry   *types.Entry `json:"entry,omitempty"`
}

func newScanCmd() *cobra.Command {
	var (
		imagePath string
		files     []string
		appName   string
		bundleID  string
	)

	cmd := &cobra.Command{
		Use:   "scan [text...]",
		Short: "Run a single detection pass and record the result",
		Long: `Run one detection pass and store what it finds. With no input the system
clipboard is read; otherwise the given text, image file or file list stands
in for the clipboard. The exclusion list and size limit apply as usual.

Scan opens the store directly, so stop a running daemon first when using the
bolt driver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				source clipboard.Source
				probe  clipboard.AppProbe
			)
			switch {
			case len(args) > 0 || imagePath != "" || len(files) > 0:
				static := clipboard.NewStaticSource()
				switch {
				case imagePath != "":
					data, err := os.ReadFile(imagePath)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", imagePath, err)
					}
					static.SetImage(&clipboard.ImageSnapshot{Bytes: data})
				case len(files) > 0:
					static.SetFiles(files...)
				default:
					static.SetText(strings.Join(args, " "))
				}
				source = static
				probe = clipboard.StaticProbe(types.AppInfo{Name: appName, BundleID: bundleID})
			default:
				source = clipboard.NewSystemSource(logger.Named("source"))
				probe = clipboard.NewAppProbe(logger.Named("probe"))
			}

			agg, closeStore, err := openAggregator()
			if err != nil {
				return err
			}
			defer closeStore()

			ingester, err := imaging.NewIngester(imaging.Options{
				Root:            cfg.SystemPaths.DataDir,
				KeepUndecodable: cfg.Images.KeepUndecodable,
				Logger:          logger.Named("imaging"),
			})
			if err != nil {
				return err
			}
			detector, err := clipboard.NewDetector(clipboard.Options{
				Source:   source,
				Probe:    probe,
				Ingester: ingester,
				Policy:   cfg,
				Logger:   logger.Named("detector"),
			})
			if err != nil {
				return err
			}

			outcome, draft, err := detector.Tick(ctx)
			if err != nil {
				return err
			}
			result := scanResult{Outcome: outcome.String()}
			if draft != nil {
				result.Entry, err = agg.Upsert(ctx, *draft)
				if err != nil {
					return err
				}
				logger.Debug("Scan recorded entry", zap.String("id", result.Entry.ID))
			}

			if useJSON {
				return printJSON(result)
			}
			fmt.Printf("Outcome: %s\n", result.Outcome)
			if result.Entry != nil {
				fmt.Println(format.FormatEntry(result.Entry, outputOptions(false)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "use this image file as the clipboard")
	cmd.Flags().StringSliceVar(&files, "files", nil, "use this file list as the clipboard")
	cmd.Flags().StringVar(&appName, "app", "", "name of the source application")
	cmd.Flags().StringVar(&bundleID, "bundle-id", "", "bundle id of the source application")
	return cmd
}
