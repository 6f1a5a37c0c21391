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

	"github.com/rs/zerolog"

	"github.com/nurpe/carbon-valuation/internal/artifact"
	"github.com/nurpe/carbon-valuation/internal/config"
	"github.com/nurpe/carbon-valuation/internal/excel"
	httphandler "github.com/nurpe/carbon-valuation/internal/http"
	"github.com/nurpe/carbon-valuation/internal/logger"
	"github.com/nurpe/carbon-valuation/internal/market"
	"github.com/nurpe/carbon-valuation/internal/pdf"
	"github.com/nurpe/carbon-valuation/internal/service"
	"github.com/nurpe/carbon-valuation/internal/valuation"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	valuator := valuation.NewValuator(nil)
	if m := loadModel(cfg.Model.Path, log); m != nil {
		valuator = valuation.NewValuator(m)
	}

	provider := market.NewProvider(cfg.Market.AveragePrice, nil)
	valuationService := service.NewValuationService(valuator, provider, excel.NewGenerator(), pdf.NewGenerator(), cfg, log)

	handler := httphandler.NewHandler(valuationService, log)
	router := httphandler.NewRouter(handler, cfg.HTTP.AllowedOrigins, cfg.Environment, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Bool("model_loaded", valuator.ModelLoaded()).Msg("starting valuation service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
}

// loadModel returns nil when the artifact is absent or unreadable; the
// service then values projects with the rule-based formula.
func loadModel(path string, log zerolog.Logger) *artifact.Model {
	m, err := artifact.Load(path)
	switch {
	case err == nil:
		log.Info().Str("path", path).Int("samples", m.Samples).Time("trained_at", m.TrainedAt).Msg("model loaded")
		return m
	case errors.Is(err, artifact.ErrNotFound):
		log.Info().Str("path", path).Msg("no trained model, using rule-based valuation")
	default:
		log.Error().Err(err).Str("path", path).Msg("failed to load model, using rule-based valuation")
	}
	return nil
}
