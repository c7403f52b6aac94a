package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amribhatt/pega/internal/server"
	"github.com/amribhatt/pega/pkg/logging"
)

// runServer starts the MCP server and waits for one of:
//   - SIGINT or SIGTERM
//   - cancellation of ctx
//   - the transport stopping by itself, e.g. stdin closed in stdio mode
//
// It then stops the server.
func runServer(ctx context.Context, services *Services) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return serveUntil(ctx, services.Server, sigChan)
}

func serveUntil(ctx context.Context, srv *server.Server, sigChan <-chan os.Signal) error {
	if err := srv.Start(ctx); err != nil {
		logging.Error("CLI", err, "Failed to start server")
		return err
	}

	if addr := srv.Addr(); addr != "" {
		logging.Info("CLI", "Listening on %s. Press Ctrl+C to stop.", addr)
	}

	select {
	case sig := <-sigChan:
		logging.Info("CLI", "Received %s, shutting down", sig)
	case <-ctx.Done():
		logging.Info("CLI", "Context cancelled, shutting down")
	case <-srv.Done():
		logging.Info("CLI", "Transport closed, shutting down")
	}

	// ctx may already be cancelled; shutdown still gets its own deadline.
	return srv.Stop(context.WithoutCancel(ctx))
}
