// Package ipc carries JSON requests between the CLI and a running daemon over
// a unix socket. One request and one response are exchanged per connection.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
)

const dialTimeout = 2 * time.Second

// ErrDaemonUnavailable is returned when nothing is listening on the socket
var ErrDaemonUnavailable = errors.New("daemon is not running")

// HandlerFunc serves one request
type HandlerFunc func(ctx context.Context, req *Request) *Response

// SendRequest connects to the daemon, sends a request, and returns the response.
func SendRequest(ctx context.Context, socketPath string, req *Request) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Call sends command with args and decodes the response data into out
func Call(ctx context.Context, socketPath, command string, args, out any) error {
	req, err := NewRequest(command, args)
	if err != nil {
		return err
	}
	resp, err := SendRequest(ctx, socketPath, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// Server accepts connections on a unix socket
type Server struct {
	socketPath string
	handler    HandlerFunc
	logger     *zap.Logger
}

func NewServer(socketPath string, handler HandlerFunc, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{socketPath: socketPath, handler: handler, logger: logger}
}

// ListenAndServe serves until ctx is done, then removes the socket
func (s *Server) ListenAndServe(ctx context.Context) error {
	// Remove any stale socket
	os.Remove(s.socketPath)
	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	defer os.Remove(s.socketPath)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Debug("Accept failed", zap.Error(err))
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		enc.Encode(Errorf("invalid request: %v", err))
		return
	}

	resp := s.handler(ctx, &req)
	if err := enc.Encode(resp); err != nil {
		s.logger.Debug("Failed to write IPC response", zap.String("command", req.Command), zap.Error(err))
	}
}
