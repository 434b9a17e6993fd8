// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/weather"
)

// ErrNonPositiveHorizon is returned when less than one day is requested.
var ErrNonPositiveHorizon = errors.New("forecast horizon must be positive")

// Record is one predicted day, with values rounded to one decimal place.
type Record struct {
	Date          time.Time
	Temperature   float64
	Precipitation float64
}

// Forecaster predicts temperature and precipitation from a daily history. Each
// variable is fitted by its own Model.
type Forecaster struct {
	newModel ModelFactory
	log      *logger.Logger
}

func New(newModel ModelFactory, log *logger.Logger) *Forecaster {
	return &Forecaster{newModel: newModel, log: log}
}

// Forecast returns exactly horizon records for the days following the last
// historical date. Both models predict over the historical range plus the horizon,
// and the trailing horizon predictions are joined by date.
func (f *Forecaster) Forecast(ctx context.Context, history []weather.Record, horizon int) ([]Record, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNonPositiveHorizon, horizon)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: empty history", ErrInsufficientData)
	}

	temps := make([]Point, len(history))
	precips := make([]Point, len(history))
	dates := make([]time.Time, 0, len(history)+horizon)
	last := weather.Day(history[0].Date)
	for i, rec := range history {
		date := weather.Day(rec.Date)
		temps[i] = Point{Date: date, Value: rec.Temperature}
		precips[i] = Point{Date: date, Value: rec.Precipitation}
		dates = append(dates, date)
		if date.After(last) {
			last = date
		}
	}
	future := FutureDates(last, horizon)
	dates = append(dates, future...)

	var tempPred, precipPred map[time.Time]float64
	group, ctxGroup := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		tempPred, err = f.predict(ctxGroup, "temperature", temps, dates, horizon)
		return err
	})
	group.Go(func() error {
		var err error
		precipPred, err = f.predict(ctxGroup, "precipitation", precips, dates, horizon)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, horizon)
	for _, date := range future {
		temp, okTemp := tempPred[date]
		precip, okPrecip := precipPred[date]
		if !okTemp || !okPrecip {
			return nil, fmt.Errorf("no prediction for %s", date.Format(weather.DateFormat))
		}
		records = append(records, Record{
			Date:          date,
			Temperature:   Round(temp),
			Precipitation: Round(precip),
		})
	}
	return records, nil
}

// predict fits a new model to series and returns its trailing horizon predictions
// over dates, keyed by date.
func (f *Forecaster) predict(ctx context.Context, variable string, series []Point, dates []time.Time,
	horizon int,
) (map[time.Time]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	model := f.newModel()
	if err := model.Fit(series); err != nil {
		return nil, fmt.Errorf("failed to fit %s model: %w", variable, err)
	}
	values, err := model.Predict(dates)
	if err != nil {
		return nil, fmt.Errorf("failed to predict %s: %w", variable, err)
	}
	if len(values) != len(dates) {
		return nil, fmt.Errorf("%s model returned %d predictions for %d dates", variable, len(values), len(dates))
	}
	f.log.Debug("model fitted", slog.String("variable", variable), slog.Int("observations", len(series)),
		slog.Duration("duration", time.Since(start)))

	offset := len(dates) - horizon
	predictions := make(map[time.Time]float64, horizon)
	for i := offset; i < len(dates); i++ {
		predictions[dates[i]] = values[i]
	}
	return predictions, nil
}

// FutureDates returns the n consecutive days following last.
func FutureDates(last time.Time, n int) []time.Time {
	last = weather.Day(last)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}

// Round rounds val to one decimal place.
func Round(val float64) float64 {
	rounded := math.Round(val*10) / 10
	if rounded == 0 {
		return 0
	}
	return rounded
}
