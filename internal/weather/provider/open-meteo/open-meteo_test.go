// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/outfit-planner/internal/geocode"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/testhelper"
	"github.com/wneessen/outfit-planner/internal/weather"
)

var (
	testNow    = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	testCoords = geocode.Coordinate{Lat: 50.95099552, Lon: 6.929531592, Found: true}
)

type mockCoder struct {
	calls int
	found bool
}

func (m *mockCoder) Name() string { return "mock" }

func (m *mockCoder) Search(context.Context, string) (geocode.Coordinate, error) {
	m.calls++
	if !m.found {
		return geocode.Coordinate{}, nil
	}
	return testCoords, nil
}

type mockForecaster struct {
	opts *omgo.Options
	err  error
}

// Forecast returns five days, the last two of them being today and tomorrow.
func (m *mockForecaster) Forecast(_ context.Context, _ omgo.Location, opts *omgo.Options) (*omgo.Forecast, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	start := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	forecast := &omgo.Forecast{DailyMetrics: map[string][]float64{
		metricTempMax: {24, 26, math.NaN(), 30, 31},
		metricTempMin: {14, 16, 15, 18, 19},
		metricPrecip:  {0, 3.2, 1, math.NaN(), 0},
		metricWind:    {12, 10, 8, 9, 11},
	}}
	for i := range 5 {
		forecast.DailyTimes = append(forecast.DailyTimes, start.AddDate(0, 0, i))
	}
	return forecast, nil
}

func TestNew(t *testing.T) {
	t.Run("creating a new provider succeeds", func(t *testing.T) {
		provider, err := New(&mockCoder{}, testLogger())
		if err != nil {
			t.Fatal(err)
		}
		if provider.Name() != name {
			t.Errorf("expected name to be %q, got %q", name, provider.Name())
		}
		if provider.RequiresKey() {
			t.Error("expected provider to not require a key")
		}
	})
	t.Run("a missing geocoder fails", func(t *testing.T) {
		if _, err := New(nil, testLogger()); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("a missing logger fails", func(t *testing.T) {
		if _, err := New(&mockCoder{}, nil); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestOpenMeteo_History(t *testing.T) {
	t.Run("daily values up to yesterday become records", func(t *testing.T) {
		provider, client, _ := testProvider(t, true)
		hist, err := provider.History(t.Context(), weather.Query{Location: "Köln", Days: 365})
		if err != nil {
			t.Fatal(err)
		}
		if client.opts.PastDays != MaxPastDays {
			t.Errorf("expected %d past days, got %d", MaxPastDays, client.opts.PastDays)
		}
		if len(hist.Records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(hist.Records))
		}
		if hist.Records[0].Temperature != 19 {
			t.Errorf("expected mean temperature 19, got %f", hist.Records[0].Temperature)
		}
		if hist.Records[1].Precipitation != 3.2 {
			t.Errorf("expected precipitation 3.2, got %f", hist.Records[1].Precipitation)
		}
		if !hist.Records[1].WindSpeed.IsSet() {
			t.Error("expected wind speed to be set")
		}
		if hist.Records[1].PrecipProb.IsSet() {
			t.Error("expected precipitation probability to be unset")
		}
		if hist.Coordinates != testCoords {
			t.Errorf("expected coordinates %s, got %s", testCoords, hist.Coordinates)
		}
	})
	t.Run("coordinates skip the geocoder", func(t *testing.T) {
		provider, _, coder := testProvider(t, true)
		hist, err := provider.History(t.Context(), weather.Query{Location: "50.95,6.93", Days: 30})
		if err != nil {
			t.Fatal(err)
		}
		if coder.calls != 0 {
			t.Errorf("expected no geocoder lookups, got %d", coder.calls)
		}
		if hist.Coordinates.Lat != 50.95 {
			t.Errorf("expected latitude 50.95, got %f", hist.Coordinates.Lat)
		}
	})
	t.Run("an unknown location fails", func(t *testing.T) {
		provider, _, _ := testProvider(t, false)
		_, err := provider.History(t.Context(), weather.Query{Location: "Atlantis"})
		if !errors.Is(err, ErrLocationNotFound) {
			t.Errorf("expected ErrLocationNotFound, got %v", err)
		}
	})
	t.Run("an API failure is returned", func(t *testing.T) {
		provider, client, _ := testProvider(t, true)
		client.err = errors.New("intentionally failing")
		if _, err := provider.History(t.Context(), weather.Query{Location: "Köln"}); err == nil {
			t.Fatal("expected an error")
		}
	})
	t.Run("fetching online succeeds", func(t *testing.T) {
		testhelper.PerformIntegrationTests(t)
		provider, err := New(&mockCoder{found: true}, testLogger())
		if err != nil {
			t.Fatal(err)
		}
		hist, err := provider.History(t.Context(), weather.Query{Location: "Köln", Days: 14})
		if err != nil {
			t.Fatal(err)
		}
		if len(hist.Records) == 0 {
			t.Error("expected records")
		}
	})
}

func TestToRecords(t *testing.T) {
	t.Run("mismatched series fail", func(t *testing.T) {
		forecast := &omgo.Forecast{
			DailyTimes:   []time.Time{testNow},
			DailyMetrics: map[string][]float64{metricTempMax: {1}},
		}
		if _, err := toRecords(forecast, testNow); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("a nil response fails", func(t *testing.T) {
		if _, err := toRecords(nil, testNow); err == nil {
			t.Error("expected an error")
		}
	})
}

func testLogger() *logger.Logger {
	return logger.NewLogger(slog.LevelDebug, io.Discard)
}

func testProvider(t *testing.T, found bool) (*OpenMeteo, *mockForecaster, *mockCoder) {
	t.Helper()
	coder := &mockCoder{found: found}
	provider, err := New(coder, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	client := &mockForecaster{}
	provider.client = client
	provider.now = func() time.Time { return testNow }
	return provider, client, coder
}
