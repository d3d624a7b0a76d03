package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/avdeev/ideaforge/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation API over HTTP and MCP (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "ideaforge version %s\n", version)

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.store == nil {
		return fmt.Errorf("server mode requires storage")
	}
	if a.cfg.Server.Token == "" {
		return fmt.Errorf("server.token is required (set IDEAFORGE_SERVER_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := api.NewAppHandler(api.AppDeps{
		Store:     a.store,
		Generator: a.generator,
		Ranker:    a.ranker,
		Presenter: a.presenter,
		Token:     a.cfg.Server.Token,
		Logger:    a.logger,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// MCP server on stdio, alongside HTTP.
	mcpDeps := api.MCPDeps{
		Store:     a.store,
		Generator: a.generator,
		Ranker:    a.ranker,
		Presenter: a.presenter,
	}
	if a.trends != nil {
		mcpDeps.Trends = a.trends
	}
	mcpSrv := api.NewMCPServer(mcpDeps)
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("MCP stdio server error", "error", err)
		}
	}()
	a.logger.Info("MCP server started (stdio transport)")

	errCh := make(chan error, 1)
	go func() {
		printStep("ideaforge listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		printStep("shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
