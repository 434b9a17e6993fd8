// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wneessen/outfit-planner/internal/config"
	"github.com/wneessen/outfit-planner/internal/forecast"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/outfit"
	"github.com/wneessen/outfit-planner/internal/weather"
)

var (
	// ErrMissingInput is returned when the API key or the location is empty.
	ErrMissingInput = errors.New("API key and location are required")

	// ErrInvalidHorizon is returned for horizons not offered in config.Horizons.
	ErrInvalidHorizon = errors.New("invalid forecast horizon")
)

// Request is a single planning request as entered by the user.
type Request struct {
	APIKey   string
	Location string
	Horizon  int
}

// Result is the outcome of a completed planning run.
type Result struct {
	ID              string
	Location        string
	Horizon         int
	History         *weather.History
	Recommendations []outfit.Recommendation
	CreatedAt       time.Time
	FetchTime       time.Duration
	ForecastTime    time.Duration
}

// Planner runs the fetch, forecast and outfit stages in sequence.
type Planner struct {
	provider   weather.Provider
	forecaster *forecast.Forecaster
	store      *Store
	log        *logger.Logger
	lookback   int
}

func New(provider weather.Provider, forecaster *forecast.Forecaster, store *Store, lookback int,
	log *logger.Logger,
) *Planner {
	return &Planner{
		provider:   provider,
		forecaster: forecaster,
		store:      store,
		log:        log,
		lookback:   lookback,
	}
}

// Normalize trims the request and checks it. It returns ErrMissingInput or
// ErrInvalidHorizon for requests that must not reach the weather provider.
func (p *Planner) Normalize(req Request) (Request, error) {
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" || (p.provider.RequiresKey() && req.APIKey == "") {
		return req, ErrMissingInput
	}
	if req.Horizon < 0 || !slices.Contains(config.Horizons, uint(req.Horizon)) {
		return req, fmt.Errorf("%w: %d days", ErrInvalidHorizon, req.Horizon)
	}
	return req, nil
}

// Run executes the pipeline for req and stores the result. The first failing stage
// aborts the run; a *weather.APIError from the provider is returned unwrapped.
func (p *Planner) Run(ctx context.Context, req Request) (*Result, error) {
	req, err := p.Normalize(req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:        uuid.NewString(),
		Location:  req.Location,
		Horizon:   req.Horizon,
		CreatedAt: time.Now(),
	}
	log := p.log.With(slog.String("run", result.ID), slog.String("location", req.Location))

	log.Info("fetching weather history", slog.String("provider", p.provider.Name()),
		slog.Int("days", p.lookback))
	start := time.Now()
	query := weather.Query{APIKey: req.APIKey, Location: req.Location, Days: p.lookback}
	result.History, err = p.provider.History(ctx, query)
	if err != nil {
		var apiErr *weather.APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to fetch weather history: %w", err)
	}
	result.FetchTime = time.Since(start)
	log.Info("weather history fetched", slog.Int("records", len(result.History.Records)),
		slog.Bool("cache_hit", result.History.CacheHit), slog.Duration("duration", result.FetchTime))

	start = time.Now()
	records, err := p.forecaster.Forecast(ctx, result.History.Records, req.Horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast weather: %w", err)
	}
	result.Recommendations = outfit.Apply(records)
	result.ForecastTime = time.Since(start)
	log.Info("forecast ready", slog.Int("horizon", req.Horizon), slog.Duration("duration", result.ForecastTime))

	if p.store != nil {
		p.store.Add(result)
	}
	return result, nil
}

// Result returns a stored run result by its ID.
func (p *Planner) Result(id string) (*Result, bool) {
	if p.store == nil {
		return nil, false
	}
	return p.store.Get(id)
}

// RequiresKey reports whether requests need an API key.
func (p *Planner) RequiresKey() bool {
	return p.provider.RequiresKey()
}
