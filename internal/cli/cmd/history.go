package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipsense/internal/ipc"
	"github.com/berrythewa/clipsense/internal/types"
	"github.com/berrythewa/clipsense/pkg/format"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		offset    int
		search    string
		typeName  string
		favorites bool
		compact   bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "List clipboard history, newest first",
		Long: `List recorded clipboard entries, newest first.

Examples:
  clipsense history                  # Last 50 entries
  clipsense history -n 10 --compact  # Last 10 entries, one line each
  clipsense history -s github        # Entries whose content or app mentions "github"
  clipsense history --type image     # Only images
  clipsense history --favorites      # Only favorites`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []*types.Entry
			err := dispatch(cmd.Context(), ipc.CmdHistory, ipc.HistoryArgs{
				Limit:         limit,
				Offset:        offset,
				Search:        search,
				Type:          typeName,
				FavoritesOnly: favorites,
			}, &entries)
			if err != nil {
				return err
			}
			if useJSON {
				return printJSON(entries)
			}
			fmt.Println(format.FormatEntries(entries, outputOptions(compact)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of entries to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of entries to skip")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries whose content or source app contains this text")
	cmd.Flags().StringVar(&typeName, "type", "", "filter by content type (text, image, file)")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favorite entries")
	cmd.Flags().BoolVar(&compact, "compact", false, "one line per entry")

	cmd.AddCommand(
		newShowCmd(),
		newFavoriteCmd(),
		newDeleteCmd(),
		newClearCmd(),
		newStatsCmd(),
	)
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry types.Entry
			if err := dispatch(cmd.Context(), ipc.CmdShow, ipc.IDArgs{ID: args[0]}, &entry); err != nil {
				return err
			}
			if useJSON {
				return printJSON(entry)
			}
			opts := outputOptions(false)
			opts.MaxWidth = 0
			opts.MaxLines = 0
			fmt.Println(format.FormatEntry(&entry, opts))
			return nil
		},
	}
}

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"fav"},
		Short:   "Toggle the favorite flag of an entry",
		Long:    "Toggle the favorite flag of an entry. Favorites are never expired.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ipc.FavoriteResult
			if err := dispatch(cmd.Context(), ipc.CmdFavorite, ipc.IDArgs{ID: args[0]}, &result); err != nil {
				return err
			}
			if useJSON {
				return printJSON(result)
			}
			if result.IsFavorite {
				fmt.Printf("★ %s marked as favorite\n", result.ID)
			} else {
				fmt.Printf("%s removed from favorites\n", result.ID)
			}
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry and its image file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry types.Entry
			if err := dispatch(cmd.Context(), ipc.CmdDelete, ipc.IDArgs{ID: args[0]}, &entry); err != nil {
				return err
			}
			if useJSON {
				return printJSON(entry)
			}
			if !quiet {
				fmt.Printf("Deleted %s\n", entry.ID)
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry, favorites included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear history without --force")
			}
			if err := dispatch(cmd.Context(), ipc.CmdClear, nil, nil); err != nil {
				return err
			}
			if !quiet {
				fmt.Println("History cleared")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm clearing the whole history")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var cache bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := outputOptions(false)

			if cache {
				var stats types.CacheStatistics
				if err := dispatch(cmd.Context(), ipc.CmdCacheStats, nil, &stats); err != nil {
					return err
				}
				if useJSON {
					return printJSON(stats)
				}
				fmt.Println(format.FormatCacheStats(&stats, opts))
				return nil
			}

			var stats types.Statistics
			if err := dispatch(cmd.Context(), ipc.CmdStats, nil, &stats); err != nil {
				return err
			}
			if useJSON {
				return printJSON(stats)
			}
			fmt.Println(format.FormatStats(&stats, opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&cache, "cache", false, "show storage sizes instead of usage")
	return cmd
}
