package ipc

import (
	"encoding/json"
	"fmt"
)

// Commands understood by the daemon
const (
	CmdHistory    = "history"
	CmdShow       = "show"
	CmdFavorite   = "favorite"
	CmdDelete     = "delete"
	CmdClear      = "clear"
	CmdStats      = "stats"
	CmdCacheStats = "cache-stats"
	CmdCleanup    = "cleanup"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a command sent from the CLI to the daemon.
type Request struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response represents a reply from the daemon to the CLI.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HistoryArgs selects a page of history
type HistoryArgs struct {
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
	Search        string `json:"search,omitempty"`
	Type          string `json:"type,omitempty"`
	FavoritesOnly bool   `json:"favorites_only,omitempty"`
}

// IDArgs addresses a single entry
type IDArgs struct {
	ID string `json:"id"`
}

// FavoriteResult is the data of a favorite response
type FavoriteResult struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

// NewRequest encodes args into a request
func NewRequest(command string, args any) (*Request, error) {
	req := &Request{Command: command}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s args: %w", command, err)
		}
		req.Args = raw
	}
	return req, nil
}

// Errorf builds an error response
func Errorf(format string, a ...any) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, a...)}
}

// OK builds a success response carrying data
func OK(message string, data any) *Response {
	resp := &Response{Status: StatusOK, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Errorf("failed to encode response: %v", err)
		}
		resp.Data = raw
	}
	return resp
}

// Decode unmarshals the response data into out. An error response becomes a Go error.
func (r *Response) Decode(out any) error {
	if r.Status != StatusOK {
		return fmt.Errorf("daemon error: %s", r.Message)
	}
	if out == nil || len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, out)
}
