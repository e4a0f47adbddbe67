package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipsense/internal/daemon"
	"github.com/berrythewa/clipsense/internal/ipc"
	"github.com/berrythewa/clipsense/internal/types"
)

const stopTimeout = 10 * time.Second

type daemonStatus struct {
	Running bool              `json:"running"`
	PID     int               `json:"pid,omitempty"`
	Socket  string            `json:"socket"`
	Stats   *types.Statistics `json:"stats,omitempty"`
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := daemon.Stop(daemon.NewPIDFile(cfg.SystemPaths.DataDir), stopTimeout)
			if errors.Is(err, daemon.ErrNotRunning) {
				fmt.Println("ClipSense is not running")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("ClipSense (PID %d) stopped\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := daemonStatus{Socket: cfg.SystemPaths.SocketPath}
			status.PID, status.Running = daemon.NewPIDFile(cfg.SystemPaths.DataDir).Running()

			if status.Running {
				ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
				defer cancel()
				var stats types.Statistics
				if err := ipc.Call(ctx, status.Socket, ipc.CmdStats, nil, &stats); err == nil {
					status.Stats = &stats
				}
			}

			if useJSON {
				return printJSON(status)
			}
			if !status.Running {
				fmt.Println("ClipSense is not running")
				return nil
			}
			fmt.Printf("ClipSense is running with PID %d\n", status.PID)
			if status.Stats != nil {
				fmt.Printf("  %d entries, %d copies\n", status.Stats.TotalEntries, status.Stats.TotalCopies)
			} else {
				fmt.Printf("  socket %s is not answering\n", status.Socket)
			}
			return nil
		},
	}
}
