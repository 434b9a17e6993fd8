// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/outfit-planner/internal/config"
	"github.com/wneessen/outfit-planner/internal/forecast"
	"github.com/wneessen/outfit-planner/internal/geocode"
	"github.com/wneessen/outfit-planner/internal/http"
	"github.com/wneessen/outfit-planner/internal/i18n"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/planner"
	"github.com/wneessen/outfit-planner/internal/presenter"
	"github.com/wneessen/outfit-planner/internal/server"
	"github.com/wneessen/outfit-planner/internal/weather"
)

type Service struct {
	SignalSrc signalSource

	config    *config.Config
	logger    *logger.Logger
	t         *i18n.Translator
	scheduler gocron.Scheduler

	geocoder  *geocode.CachedGeocoder
	cache     *weather.CachedProvider
	store     *planner.Store
	planner   *planner.Planner
	presenter *presenter.Presenter
	server    *server.Server
}

func New(conf *config.Config, log *logger.Logger, t *i18n.Translator) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if t == nil {
		return nil, errors.New("translator is required")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	service := &Service{
		SignalSrc: stdLibSignalSource{},
		config:    conf,
		logger:    log,
		t:         t,
		scheduler: scheduler,
	}

	httpClient := http.New(log)
	service.geocoder, err = service.selectGeocodeProvider(httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode provider: %w", err)
	}
	provider, err := service.selectWeatherProvider(httpClient, service.geocoder)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather provider: %w", err)
	}

	// Cache hits never consume rate limiter tokens
	limited := weather.NewRateLimitedProvider(provider, conf.Weather.RateLimit, conf.Weather.RateBurst)
	service.cache = weather.NewCachedProvider(limited, conf.Weather.CacheTTL, log)
	service.store = planner.NewStore(conf.Intervals.RunTTL)
	forecaster := forecast.New(forecast.AdditiveFactory(conf.Forecast.Changepoints), log)
	service.planner = planner.New(service.cache, forecaster, service.store, int(conf.Weather.LookbackDays), log) //nolint:gosec

	service.presenter, err = presenter.New(t, service.planner.RequiresKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}
	defaults := presenter.Form{
		Location: config.DefaultLocation,
		Horizon:  int(conf.Forecast.DefaultHorizon), //nolint:gosec
	}
	service.server = server.New(service.planner, service.presenter, defaults, log)

	return service, nil
}

// Run serves the planner UI until ctx is canceled and then shuts the HTTP server
// down gracefully.
func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.CachePurge, s.purgeCaches,
		"cache_purge_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		defer s.SignalSrc.Stop(sigChan)
		s.HandleSignals(ctx, sigChan)
	}()

	httpServer := &stdhttp.Server{
		Addr:              s.config.Server.Listen,
		Handler:           s.server.Handler(),
		ReadHeaderTimeout: s.config.Server.ReadHeaderTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("listening for HTTP requests", slog.String("address", httpServer.Addr),
			slog.String("provider", s.cache.Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to shut down HTTP server: %w", err))
	}
	if err := s.scheduler.Shutdown(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to shut down scheduler: %w", err))
	}
	return runErr
}

// RunOnce performs a single planning run with the configured API key and writes the
// result tables to w.
func (s *Service) RunOnce(ctx context.Context, w io.Writer, location string, horizon int) error {
	req := planner.Request{APIKey: s.config.Weather.APIKey, Location: location, Horizon: horizon}
	result, err := s.planner.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("planning run failed: %w", err)
	}
	return s.presenter.RenderText(w, result)
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// purgeCaches drops expired entries from the weather cache, the geocoder cache and
// the run store.
func (s *Service) purgeCaches(context.Context) {
	s.logger.Debug("expired cache entries purged",
		slog.Int("weather", s.cache.Purge()),
		slog.Int("geocoder", s.geocoder.Purge()),
		slog.Int("runs", s.store.Purge()),
	)
}

func (s *Service) logCacheStats() {
	s.logger.Info("cache statistics",
		slog.Int("weather", s.cache.Len()),
		slog.Int("geocoder", s.geocoder.Len()),
		slog.Int("runs", s.store.Len()),
	)
}
