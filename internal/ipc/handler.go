package ipc

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/aggregator"
	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/internal/types"
)

// Service is the daemon state the handler serves. *aggregator.Aggregator implements it.
type Service interface {
	History(ctx context.Context, q storage.HistoryQuery) ([]*types.Entry, error)
	Entry(ctx context.Context, id string) (*types.Entry, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (*types.Entry, error)
	Clear(ctx context.Context) error
	Statistics(ctx context.Context) (*types.Statistics, error)
	CacheStatistics(ctx context.Context) (*types.CacheStatistics, error)
	Cleanup(ctx context.Context, policy aggregator.ExpiryPolicy) (*types.CleanupResult, error)
}

// NewHandler dispatches requests to svc. Cleanup uses expiry.
func NewHandler(svc Service, expiry aggregator.ExpiryPolicy, logger *zap.Logger) HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req *Request) *Response {
		logger.Debug("IPC request", zap.String("command", req.Command))

		switch req.Command {
		case CmdHistory:
			var args HistoryArgs
			if err := decodeArgs(req, &args); err != nil {
				return Errorf("invalid history args: %v", err)
			}
			ct := types.ContentType(args.Type)
			if ct != "" && !ct.Valid() {
				return Errorf("unknown content type %q", args.Type)
			}
			entries, err := svc.History(ctx, storage.HistoryQuery{
				Limit:         args.Limit,
				Offset:        args.Offset,
				Search:        args.Search,
				Type:          ct,
				FavoritesOnly: args.FavoritesOnly,
			})
			if err != nil {
				return Errorf("failed to read history: %v", err)
			}
			return OK("", entries)

		case CmdShow:
			id, resp := requireID(req)
			if resp != nil {
				return resp
			}
			entry, err := svc.Entry(ctx, id)
			if err != nil {
				return entryError(id, err)
			}
			return OK("", entry)

		case CmdFavorite:
			id, resp := requireID(req)
			if resp != nil {
				return resp
			}
			fav, err := svc.ToggleFavorite(ctx, id)
			if err != nil {
				return entryError(id, err)
			}
			return OK("", FavoriteResult{ID: id, IsFavorite: fav})

		case CmdDelete:
			id, resp := requireID(req)
			if resp != nil {
				return resp
			}
			entry, err := svc.Delete(ctx, id)
			if err != nil {
				return entryError(id, err)
			}
			return OK("entry deleted", entry)

		case CmdClear:
			if err := svc.Clear(ctx); err != nil {
				return Errorf("failed to clear history: %v", err)
			}
			return OK("history cleared", nil)

		case CmdStats:
			stats, err := svc.Statistics(ctx)
			if err != nil {
				return Errorf("failed to compute statistics: %v", err)
			}
			return OK("", stats)

		case CmdCacheStats:
			stats, err := svc.CacheStatistics(ctx)
			if err != nil {
				return Errorf("failed to compute cache statistics: %v", err)
			}
			return OK("", stats)

		case CmdCleanup:
			result, err := svc.Cleanup(ctx, expiry)
			if err != nil {
				return Errorf("cleanup failed: %v", err)
			}
			return OK("", result)

		default:
			return Errorf("unknown command %q", req.Command)
		}
	}
}

func decodeArgs(req *Request, out any) error {
	if len(req.Args) == 0 {
		return nil
	}
	return json.Unmarshal(req.Args, out)
}

func requireID(req *Request) (string, *Response) {
	var args IDArgs
	if err := decodeArgs(req, &args); err != nil {
		return "", Errorf("invalid %s args: %v", req.Command, err)
	}
	if args.ID == "" {
		return "", Errorf("%s requires an id", req.Command)
	}
	return args.ID, nil
}

func entryError(id string, err error) *Response {
	if errors.Is(err, storage.ErrNotFound) {
		return Errorf("entry %s not found", id)
	}
	return Errorf("%v", err)
}
