// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/outfit-planner/internal/geocode"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/vartype"
	"github.com/wneessen/outfit-planner/internal/weather"
)

const (
	name = "open-meteo"

	// MaxPastDays is the longest history the forecast endpoint serves.
	MaxPastDays = 92

	metricTempMax = "temperature_2m_max"
	metricTempMin = "temperature_2m_min"
	metricPrecip  = "precipitation_sum"
	metricWind    = "wind_speed_10m_max"
	metricRain    = "precipitation_probability_max"
)

var (
	ErrLocationNotFound = errors.New("location could not be resolved to coordinates")

	dailyMetrics = []string{metricTempMax, metricTempMin, metricPrecip, metricWind, metricRain}
)

// forecaster is the part of the omgo client used by this provider.
type forecaster interface {
	Forecast(ctx context.Context, loc omgo.Location, opts *omgo.Options) (*omgo.Forecast, error)
}

type OpenMeteo struct {
	client forecaster
	coder  geocode.Geocoder
	log    *logger.Logger
	now    func() time.Time
}

func New(coder geocode.Geocoder, log *logger.Logger) (*OpenMeteo, error) {
	if coder == nil {
		return nil, fmt.Errorf("geocoder is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}

	return &OpenMeteo{client: &client, coder: coder, log: log, now: time.Now}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

func (o *OpenMeteo) RequiresKey() bool {
	return false
}

// History returns the daily history for the query location. Open-Meteo only serves
// MaxPastDays of history on its forecast endpoint, so longer windows are shortened.
func (o *OpenMeteo) History(ctx context.Context, query weather.Query) (*weather.History, error) {
	location := strings.TrimSpace(query.Location)
	coords, err := o.resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	loc, err := omgo.NewLocation(coords.Lat, coords.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo location: %w", err)
	}
	days := query.Days
	if days <= 0 || days > MaxPastDays {
		days = MaxPastDays
	}
	opts := &omgo.Options{
		TemperatureUnit:   "celsius",
		PrecipitationUnit: "mm",
		WindspeedUnit:     "kmh",
		Timezone:          "UTC",
		PastDays:          days,
		DailyMetrics:      dailyMetrics,
	}

	o.log.Debug("fetching weather history", slog.String("provider", name),
		slog.String("location", location), slog.String("coordinates", coords.String()),
		slog.Int("days", days))
	forecast, err := o.client.Forecast(ctx, loc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve weather history from Open-Meteo API: %w", err)
	}

	_, end := query.Window(o.now())
	records, err := toRecords(forecast, end)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, weather.ErrNoRecords
	}

	return &weather.History{
		Provider:    name,
		Location:    location,
		Coordinates: coords,
		Records:     records,
		FetchedAt:   o.now(),
	}, nil
}

func (o *OpenMeteo) resolve(ctx context.Context, location string) (geocode.Coordinate, error) {
	if coords, ok := geocode.ParseCoordinate(location); ok {
		return coords, nil
	}
	coords, err := o.coder.Search(ctx, location)
	if err != nil {
		return coords, fmt.Errorf("failed to resolve location %q: %w", location, err)
	}
	if !coords.Found {
		return coords, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	}
	return coords, nil
}

// toRecords converts the daily series of the API response up to and including end.
// The mean temperature of a day is the midpoint of its maximum and minimum.
func toRecords(forecast *omgo.Forecast, end time.Time) ([]weather.Record, error) {
	if forecast == nil {
		return nil, errors.New("empty Open-Meteo response")
	}
	maxTemps := forecast.DailyMetrics[metricTempMax]
	minTemps := forecast.DailyMetrics[metricTempMin]
	precips := forecast.DailyMetrics[metricPrecip]
	count := len(forecast.DailyTimes)
	if len(maxTemps) != count || len(minTemps) != count || len(precips) != count {
		return nil, fmt.Errorf("incomplete Open-Meteo response: %d days, %d/%d/%d values", count,
			len(maxTemps), len(minTemps), len(precips))
	}

	records := make([]weather.Record, 0, count)
	for i, day := range forecast.DailyTimes {
		date := weather.Day(day)
		if date.After(end) {
			break
		}
		if math.IsNaN(maxTemps[i]) || math.IsNaN(minTemps[i]) {
			continue
		}
		record := weather.Record{
			Date:          date,
			Temperature:   (maxTemps[i] + minTemps[i]) / 2,
			Precipitation: precips[i],
			TempMax:       vartype.NewVariable(maxTemps[i]),
			TempMin:       vartype.NewVariable(minTemps[i]),
		}
		if math.IsNaN(record.Precipitation) {
			record.Precipitation = 0
		}
		if val, ok := metricAt(forecast, metricWind, i); ok {
			record.WindSpeed.Set(val)
		}
		if val, ok := metricAt(forecast, metricRain, i); ok {
			record.PrecipProb.Set(val)
		}
		records = append(records, record)
	}

	return records, nil
}

func metricAt(forecast *omgo.Forecast, metric string, idx int) (float64, bool) {
	values := forecast.DailyMetrics[metric]
	if idx >= len(values) || math.IsNaN(values[idx]) {
		return 0, false
	}
	return values[idx], true
}
