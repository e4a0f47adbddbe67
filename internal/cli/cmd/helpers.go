package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/aggregator"
	"github.com/berrythewa/clipsense/internal/ipc"
	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/pkg/format"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputOptions(compact bool) format.Options {
	opts := format.DefaultOptions()
	if compact {
		opts = format.CompactOptions()
	}
	return opts.ForTerminal(os.Stdout)
}

func expiryPolicy() aggregator.ExpiryPolicy {
	return aggregator.ExpiryPolicy{
		TextDays:  cfg.Expiry.TextDays,
		ImageDays: cfg.Expiry.ImageDays,
	}
}

// openAggregator opens the configured store directly
func openAggregator() (*aggregator.Aggregator, func(), error) {
	if err := cfg.SystemPaths.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(storage.Options{
		Driver: cfg.Storage.Driver,
		DBPath: cfg.Storage.DBPath,
		Logger: logger.Named("storage"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	agg, err := aggregator.New(aggregator.Options{
		Store:  store,
		Root:   cfg.SystemPaths.DataDir,
		DBPath: cfg.Storage.DBPath,
		Logger: logger.Named("aggregator"),
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return agg, func() {
		agg.Close()
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}, nil
}

// dispatch sends command to the running daemon, or serves it in-process
// against the store when no daemon is listening
func dispatch(ctx context.Context, command string, args, out any) error {
	err := ipc.Call(ctx, cfg.SystemPaths.SocketPath, command, args, out)
	if !errors.Is(err, ipc.ErrDaemonUnavailable) {
		return err
	}
	logger.Debug("Daemon not running, opening store directly", zap.String("command", command))

	agg, closeStore, err := openAggregator()
	if err != nil {
		return err
	}
	defer closeStore()

	req, err := ipc.NewRequest(command, args)
	if err != nil {
		return err
	}
	handle := ipc.NewHandler(agg, expiryPolicy(), logger)
	return handle(ctx, req).Decode(out)
}
