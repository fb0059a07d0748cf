package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/shadow-scope/pkg/handlers/apps"
	"github.com/de-tools/shadow-scope/pkg/services/pipeline"
	"github.com/de-tools/shadow-scope/pkg/services/scoring"

	shadowscopemiddleware "github.com/de-tools/shadow-scope/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Pipeline pipeline.Service
	Settings scoring.ScoringSettings
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	handler := apps.NewHandler(config.Dependencies.Pipeline, config.Dependencies.Settings)

	router := chi.NewRouter()
	router.Use(shadowscopemiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", handler.GetSummary)
		r.Get("/apps", handler.ListApps)
		r.Post("/apps/{domain}/resolve", handler.ResolveApp)
		r.Get("/behavior_insights", handler.GetBehaviorInsights)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/risk_distribution", handler.GetRiskDistribution)
			r.Get("/spend_by_category", handler.GetSpendByCategory)
			r.Get("/usage_trend", handler.GetUsageTrend)
		})
	})

	return router
}

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewWebAPI(config Config) *WebAPI {
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		logger: &config.Dependencies.Logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: ConfigureRouter(config),
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
