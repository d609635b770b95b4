package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/talentscout/scout/internal/anonymize"
	"github.com/talentscout/scout/internal/api"
	"github.com/talentscout/scout/internal/config"
	"github.com/talentscout/scout/internal/conversation"
	"github.com/talentscout/scout/internal/groq"
	"github.com/talentscout/scout/internal/storage"
)

const reapInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scout HTTP API (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also expose recruiter tools over MCP (stdio transport)")
}

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "scout version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.OpenDriver(cfg.Storage.Driver, cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	controller := newController(cfg)
	registry := api.NewRegistry()

	handler := api.NewHandler(api.AppDeps{
		Controller: controller,
		Store:      store,
		Anonymizer: anonymize.New(),
		Registry:   registry,
		Token:      cfg.Server.APIToken,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		printStep("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Evict sessions that went quiet.
	g.Go(func() error {
		ticker := time.NewTicker(reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if n := registry.Reap(now); n > 0 {
					slog.Info("reaped idle sessions", "count", n)
				}
			}
		}
	})

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{Store: store})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio server: %w", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	// Shut the HTTP server down once the group context ends (signal or
	// failure of any component).
	g.Go(func() error {
		<-gctx.Done()
		printStep("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newController(cfg config.Config) *conversation.Controller {
	backend := groq.NewClientWithBaseURL(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.BaseURL)
	c := conversation.NewController(backend)
	c.Temperature = cfg.Chat.Temperature
	c.MaxTokens = cfg.Chat.MaxTokens
	c.HistoryLimit = cfg.Chat.HistoryLimit
	return c
}

func initLogging(level string) {
	logLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}
