package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"starquest/internal/config"
	"starquest/internal/game"
	"starquest/internal/observability"
	"starquest/internal/session"
	"starquest/internal/web"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the adventure web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	stories, err := game.LoadStories(cfg.Stories.Dir)
	if err != nil {
		return err
	}
	logger.Info("stories loaded",
		zap.Int("count", len(stories)),
		zap.String("dir", cfg.Stories.Dir))

	tmpl, err := template.ParseGlob("templates/*.html")
	if err != nil {
		return err
	}

	srv := &web.Server{
		Engine:       game.NewEngine(stories),
		Store:        session.NewMemoryStore[*game.Session](),
		Tmpl:         tmpl,
		Log:          logger,
		DefaultStory: cfg.Stories.Default,
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
