package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/api"
	"github.com/erazemk/devicetrack/internal/logging"
	"github.com/erazemk/devicetrack/internal/metrics"
	"github.com/erazemk/devicetrack/internal/onboarding"
	"github.com/erazemk/devicetrack/internal/scheduler"
	"github.com/erazemk/devicetrack/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		addr     string
		actor    string
		noDigest bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			if actor != "" {
				a.cfg.SystemActor = actor
			}
			return a.serve(cmd.Context(), !noDigest)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	cmd.Flags().StringVar(&actor, "actor", "", "last-modified-by label for system writes (overrides SYSTEM_ACTOR)")
	cmd.Flags().BoolVar(&noDigest, "no-digest", false, "disable the scheduled maintenance digest")
	return cmd
}

func (a *app) serve(parent context.Context, digest bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	m := metrics.New()

	onboard := onboarding.NewService(database, a.cfg.SystemActor, logging.Named(a.logger, "onboarding"))
	onboard.Recorder = m

	webRouter, err := web.NewRouter(database, onboard, logging.Named(a.logger, "web"))
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(api.RequestIDMiddleware)
	r.Use(api.LoggingMiddleware(logging.Named(a.logger, "http"), m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Mount("/api", api.Routes(api.Options{
		DB:         database,
		Actor:      a.cfg.SystemActor,
		Logger:     logging.Named(a.logger, "api"),
		Metrics:    m,
		Onboarding: onboard,
		RateLimit:  a.cfg.RateLimit,
	}))
	r.Mount("/", webRouter)

	if digest {
		sched := scheduler.New(database, a.cfg.DigestSchedule, logging.Named(a.logger, "scheduler"))
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.cfg.Addr), zap.String("actor", a.cfg.SystemActor))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown server", zap.Error(err))
	}
	return nil
}
