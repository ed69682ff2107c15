package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"coursedash/internal/courses"
	mcpserver "coursedash/internal/mcp"
	"coursedash/internal/server"

	mcpgo "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

//go:embed static
var staticFS embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}

	// The page answers immediately; the dataset arrives in the background.
	loader := courses.NewLoader(src, cfg.Dataset.LoadTimeout, log)
	loader.Start(ctx)

	svc := courses.NewService(loader, courses.Defaults{
		Title:  cfg.Dashboard.Title,
		Author: cfg.Dashboard.Author,
	})
	handler := courses.NewHandler(svc, log)

	mcpSrv := mcpserver.NewServer(svc, version)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static fs: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: server.NewRouter(server.Deps{
			Courses:    handler,
			MCP:        mcpgo.NewStreamableHTTPServer(mcpSrv),
			Static:     static,
			Log:        log,
			TrustProxy: cfg.Server.TrustProxy,
			RateLimit:  cfg.RateLimit,
			CORS:       cfg.CORS,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	port := strconv.Itoa(cfg.Server.Port)
	log.Info("server starting", "port", port, "source", src.Name(), "env", cfg.Env)
	log.Info("endpoints available",
		"web", "http://localhost:"+port,
		"api", "http://localhost:"+port+"/api",
		"mcp", "http://localhost:"+port+"/mcp",
	)

	if err := server.Run(ctx, srv, cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
