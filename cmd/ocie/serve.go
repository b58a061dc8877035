package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dowan1041/ocie-helper/internal/api"
	"github.com/dowan1041/ocie-helper/internal/auth"
	"github.com/dowan1041/ocie-helper/internal/store"
	"github.com/dowan1041/ocie-helper/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringP("addr", "a", "", "listen address (default: :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	slog.Info("configuration loaded", "config", a.cfg)

	svc, imageDir, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer svc.DB.Close()

	// Signing key for passcode grants, generated on first run.
	sessionSecret, err := store.GetSessionSecret(ctx, svc.DB)
	if err != nil {
		return err
	}

	siteGate := auth.NewGate(auth.ScopeSite, a.cfg.SitePasscode)
	writeGate := auth.NewGate(auth.ScopeWrite, a.cfg.WritePasscode)
	if !siteGate.Enabled() {
		slog.Warn("no site passcode configured, the catalog is public")
	}
	if !writeGate.Enabled() {
		slog.Warn("no write passcode configured, adding items is disabled")
	}

	apiRouter := api.NewRouter(svc, sessionSecret, siteGate, writeGate)
	webRouter, err := web.NewRouter(svc, sessionSecret, siteGate, writeGate, imageDir)
	if err != nil {
		return err
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown once the command context is cancelled (SIGINT/SIGTERM).
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", a.cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
