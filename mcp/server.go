// Package mcp exposes the customer-success data and AI surfaces as MCP
// tools, over stdio for launched processes or Streamable HTTP for
// long-running deployments.
package mcp

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/haikentcode/csmpilot-sub000/assistant"
	"github.com/haikentcode/csmpilot-sub000/client"
	"github.com/haikentcode/csmpilot-sub000/internal/config"
	"github.com/haikentcode/csmpilot-sub000/mcp/internal/handlers"
)

const (
	serverName    = "csm-mcp-server"
	serverVersion = "0.3.0"

	httpAddr        = ":11560"
	shutdownTimeout = 10 * time.Second
	httpReadTimeout = 5 * time.Second
	httpIdleTimeout = 120 * time.Second
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

func registerHandler(s *server.MCPServer, handler toolRegisterer, name string) {
	if err := handler.RegisterTools(s); err != nil {
		log.Fatal().Err(err).Msgf("Failed to register %s tools", name)
	}
}

// Run starts the MCP server and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Command line flags override env vars.
	flag.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Base URL of the dashboard backend")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	flag.BoolVar(&cfg.DemoMode, "demo-mode", cfg.DemoMode, "Serve canned AI content when the backend pipeline is unavailable")
	flag.Parse()
	cfg.InitLogger()

	log.Info().Str("backend_url", cfg.BackendURL).Bool("demo_mode", cfg.DemoMode).Msg("Creating SDK client")
	opts := []client.Option{
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithCacheTTL(cfg.CacheTTL),
		client.WithRateLimitDelay(cfg.RateLimitDelay),
		client.WithMaxAttempts(cfg.MaxAttempts),
		client.WithDemoMode(cfg.DemoMode),
	}
	if cfg.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.APIKey))
	}
	sdk, err := client.New(cfg.BackendURL, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create SDK client")
		return err
	}

	copilot, err := assistant.New(sdk, cfg.OpenAIAPIKey)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create assistant")
		return err
	}

	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	)

	registerHandler(s, handlers.NewCustomerHandler(sdk), "customer")
	registerHandler(s, handlers.NewFeedbackHandler(sdk), "feedback")
	registerHandler(s, handlers.NewHealthHandler(sdk), "health")
	registerHandler(s, handlers.NewAssistantHandler(copilot), "assistant")

	if shouldUseStdio() {
		log.Info().Msg("Starting CSM MCP server (stdio transport)")
		if err := server.ServeStdio(s); err != nil {
			log.Fatal().Err(err).Msg("Stdio server error")
		}
		return sdk.Close()
	}

	log.Info().Msgf("Starting CSM MCP server (Streamable HTTP) on %s", httpAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)

	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      streamSrv,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: 0, // no deadline, required for SSE streaming
		IdleTimeout:  httpIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
		if err := sdk.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing SDK client")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio determines the transport from the environment: explicit
// MCP_STDIO/MCP_HTTP override, otherwise stdio when launched by another
// process (stdin is not a terminal).
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
