package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/berrythewa/clipsense/internal/aggregator"
	"github.com/berrythewa/clipsense/internal/api"
	"github.com/berrythewa/clipsense/internal/clipboard"
	"github.com/berrythewa/clipsense/internal/daemon"
	"github.com/berrythewa/clipsense/internal/imaging"
	"github.com/berrythewa/clipsense/internal/ipc"
	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/pkg/format"
)

const (
	draftBuffer    = 64
	expiryInterval = time.Hour
)

func newRunCmd() *cobra.Command {
	var (
		duration time.Duration
		withAPI  bool
		listen   string
		detach   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the clipboard and record history",
		Long: `Run the clipboard detector in the foreground. New clipboard content is
classified, stored and served to other clipsense commands over a local socket.

You can specify a duration for testing purposes, otherwise it will run
until interrupted.`,
		Annotations: map[string]string{daemonAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if detach && !daemon.IsDetached() {
				return startDetached()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			if listen == "" {
				listen = cfg.API.Listen
			}
			return runDaemon(ctx, withAPI || cfg.API.Enabled, listen, duration > 0)
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "run for a specific duration (for testing)")
	cmd.Flags().BoolVar(&withAPI, "api", false, "serve the HTTP API")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP API address (default from config)")
	cmd.Flags().BoolVar(&detach, "detach", false, "run in the background")
	return cmd
}

func runDaemon(ctx context.Context, withAPI bool, listen string, summarize bool) error {
	logger.Info("Starting ClipSense",
		zap.String("device_id", cfg.DeviceID),
		zap.String("driver", cfg.Storage.Driver),
		zap.String("db_path", cfg.Storage.DBPath))

	pidFile := daemon.NewPIDFile(cfg.SystemPaths.DataDir)
	if err := pidFile.Acquire(); err != nil {
		return err
	}
	defer pidFile.Release()

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
		Source:        clipboard.NewSystemSource(logger.Named("source")),
		Probe:         clipboard.NewAppProbe(logger.Named("probe")),
		Ingester:      ingester,
		Policy:        cfg,
		Novelty:       clipboard.NewNoveltyTracker(cfg.Monitor.RecencyWindow),
		Interval:      cfg.Monitor.PollInterval,
		BackoffFactor: cfg.Monitor.SelfBackoffFactor,
		Logger:        logger.Named("detector"),
	})
	if err != nil {
		return err
	}

	drafts, unsubscribe := detector.Subscribe(draftBuffer)
	defer unsubscribe()
	entries, unsubscribeEntries := agg.Subscribe(draftBuffer)
	defer unsubscribeEntries()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return detector.Run(gctx) })
	g.Go(func() error { return agg.Run(gctx, drafts) })
	g.Go(func() error { return expireLoop(gctx, agg) })
	g.Go(func() error {
		handler := ipc.NewHandler(agg, expiryPolicy(), logger.Named("ipc"))
		return ipc.NewServer(cfg.SystemPaths.SocketPath, handler, logger.Named("ipc")).ListenAndServe(gctx)
	})
	if withAPI {
		g.Go(func() error { return api.NewServer(listen, agg, logger.Named("api")).Run(gctx) })
	}
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case e, ok := <-entries:
				if !ok {
					return nil
				}
				logger.Info("Clipboard entry recorded",
					zap.String("id", e.ID),
					zap.String("type", string(e.ContentType)),
					zap.String("subtype", string(e.ContentSubtype)),
					zap.String("app", e.SourceApp),
					zap.Int64("copy_count", e.CopyCount))
			}
		}
	})

	logger.Info("Running until interrupted, press Ctrl+C to stop")
	if err := g.Wait(); err != nil {
		return err
	}

	if dropped := detector.Dropped() + agg.Dropped(); dropped > 0 {
		logger.Warn("Some changes were not delivered", zap.Int64("dropped", dropped))
	}
	logger.Info("ClipSense stopped")

	if summarize {
		recent, err := agg.History(context.Background(), storage.HistoryQuery{Limit: 10})
		if err != nil {
			return err
		}
		fmt.Println(format.FormatEntries(recent, outputOptions(true)))
	}
	return nil
}

// startDetached re-executes this command in the background without --detach
func startDetached() error {
	if pid, ok := daemon.NewPIDFile(cfg.SystemPaths.DataDir).Running(); ok {
		return fmt.Errorf("%w with pid %d", daemon.ErrAlreadyRunning, pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	args := make([]string, 0, len(os.Args))
	for _, arg := range os.Args[1:] {
		if arg != "--detach" && arg != "--detach=true" {
			args = append(args, arg)
		}
	}

	pid, err := daemon.Start(daemon.StartOptions{
		Executable: executable,
		Args:       args,
		LogFile:    filepath.Join(cfg.SystemPaths.LogDir, "clipsense-daemon.log"),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	fmt.Printf("ClipSense started in the background with PID %d\n", pid)
	return nil
}

// expireLoop applies the expiry policy at startup and then hourly
func expireLoop(ctx context.Context, agg *aggregator.Aggregator) error {
	ticker := time.NewTicker(expiryInterval)
	defer ticker.Stop()
	for {
		if _, err := agg.Cleanup(ctx, expiryPolicy()); err != nil && ctx.Err() == nil {
			logger.Warn("Expiry pass failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
