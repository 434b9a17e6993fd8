// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package planner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"testing/synctest"
	"time"

	"github.com/wneessen/outfit-planner/internal/forecast"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/weather"
)

type mockProvider struct {
	calls       int
	days        int
	requiresKey bool
	err         error
}

func (m *mockProvider) Name() string      { return "mock" }
func (m *mockProvider) RequiresKey() bool { return m.requiresKey }

func (m *mockProvider) History(_ context.Context, query weather.Query) (*weather.History, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hist := &weather.History{Provider: "mock", Location: query.Location}
	for i := range m.days {
		hist.Records = append(hist.Records, weather.Record{
			Date:          start.AddDate(0, 0, i),
			Temperature:   25 + 4*math.Sin(float64(i)/10),
			Precipitation: math.Max(0, 8*math.Sin(float64(i)/7)),
		})
	}
	return hist, nil
}

func testPlanner(provider *mockProvider) (*Planner, *Store) {
	log := logger.NewLogger(slog.LevelDebug, io.Discard)
	store := NewStore(time.Hour)
	fc := forecast.New(forecast.AdditiveFactory(forecast.DefaultChangepoints), log)
	return New(provider, fc, store, 365, log), store
}

func TestPlanner_Run(t *testing.T) {
	t.Run("a complete run returns one recommendation per day", func(t *testing.T) {
		provider := &mockProvider{days: 365, requiresKey: true}
		planner, store := testPlanner(provider)
		result, err := planner.Run(t.Context(), Request{APIKey: "key", Location: " Bengaluru,India ", Horizon: 30})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Recommendations) != 30 {
			t.Errorf("expected 30 recommendations, got %d", len(result.Recommendations))
		}
		if result.Location != "Bengaluru,India" {
			t.Errorf("expected trimmed location, got %q", result.Location)
		}
		if result.ID == "" {
			t.Error("expected a run ID")
		}
		for _, rec := range result.Recommendations {
			if rec.Outfit.Text == "" {
				t.Errorf("expected an outfit for %s", rec.Date)
			}
		}
		if store.Len() != 1 {
			t.Errorf("expected 1 stored result, got %d", store.Len())
		}
		stored, ok := planner.Result(result.ID)
		if !ok || stored != result {
			t.Error("expected result to be retrievable by ID")
		}
	})
	t.Run("an empty API key makes no remote calls", func(t *testing.T) {
		provider := &mockProvider{days: 365, requiresKey: true}
		planner, _ := testPlanner(provider)
		_, err := planner.Run(t.Context(), Request{APIKey: "  ", Location: "Bengaluru,India", Horizon: 30})
		if !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
		if provider.calls != 0 {
			t.Errorf("expected 0 remote calls, got %d", provider.calls)
		}
	})
	t.Run("an empty location makes no remote calls", func(t *testing.T) {
		provider := &mockProvider{days: 365, requiresKey: true}
		planner, _ := testPlanner(provider)
		_, err := planner.Run(t.Context(), Request{APIKey: "key", Location: "", Horizon: 30})
		if !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
		if provider.calls != 0 {
			t.Errorf("expected 0 remote calls, got %d", provider.calls)
		}
	})
	t.Run("a keyless provider accepts an empty API key", func(t *testing.T) {
		provider := &mockProvider{days: 90}
		planner, _ := testPlanner(provider)
		if _, err := planner.Run(t.Context(), Request{Location: "Köln", Horizon: 7}); err != nil {
			t.Fatal(err)
		}
		if provider.calls != 1 {
			t.Errorf("expected 1 remote call, got %d", provider.calls)
		}
	})
	t.Run("a horizon outside the offered choices fails", func(t *testing.T) {
		provider := &mockProvider{days: 365, requiresKey: true}
		planner, _ := testPlanner(provider)
		for _, horizon := range []int{-7, 0, 10, 365} {
			_, err := planner.Run(t.Context(), Request{APIKey: "key", Location: "Berlin", Horizon: horizon})
			if !errors.Is(err, ErrInvalidHorizon) {
				t.Errorf("expected ErrInvalidHorizon for %d, got %v", horizon, err)
			}
		}
		if provider.calls != 0 {
			t.Errorf("expected 0 remote calls, got %d", provider.calls)
		}
	})
	t.Run("an API error is returned and no result is stored", func(t *testing.T) {
		provider := &mockProvider{
			requiresKey: true,
			err:         weather.NewAPIError(401, []byte("No account found with API key 'key'")),
		}
		planner, store := testPlanner(provider)
		result, err := planner.Run(t.Context(), Request{APIKey: "key", Location: "Berlin", Horizon: 7})
		if result != nil {
			t.Error("expected no result")
		}
		var apiErr *weather.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Message != "No account found with API key 'key'" {
			t.Errorf("unexpected message: %q", apiErr.Message)
		}
		if store.Len() != 0 {
			t.Errorf("expected no stored results, got %d", store.Len())
		}
	})
	t.Run("other fetch errors are wrapped", func(t *testing.T) {
		provider := &mockProvider{requiresKey: true, err: errors.New("connection reset")}
		planner, _ := testPlanner(provider)
		_, err := planner.Run(t.Context(), Request{APIKey: "key", Location: "Berlin", Horizon: 7})
		if err == nil {
			t.Fatal("expected an error")
		}
		var apiErr *weather.APIError
		if errors.As(err, &apiErr) {
			t.Error("expected a generic error")
		}
	})
	t.Run("insufficient history aborts the run", func(t *testing.T) {
		provider := &mockProvider{days: 1, requiresKey: true}
		planner, store := testPlanner(provider)
		_, err := planner.Run(t.Context(), Request{APIKey: "key", Location: "Berlin", Horizon: 7})
		if !errors.Is(err, forecast.ErrInsufficientData) {
			t.Errorf("expected ErrInsufficientData, got %v", err)
		}
		if store.Len() != 0 {
			t.Errorf("expected no stored results, got %d", store.Len())
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("results expire after the TTL", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			store := NewStore(time.Minute)
			store.Add(&Result{ID: "first"})
			if _, ok := store.Get("first"); !ok {
				t.Fatal("expected result to be found")
			}
			time.Sleep(time.Minute + time.Second)
			if _, ok := store.Get("first"); ok {
				t.Error("expected result to be expired")
			}
		})
	})
	t.Run("unknown IDs are not found", func(t *testing.T) {
		if _, ok := NewStore(time.Minute).Get("unknown"); ok {
			t.Error("expected result to be not found")
		}
	})
	t.Run("purging removes expired results only", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			store := NewStore(time.Minute)
			store.Add(&Result{ID: "old"})
			time.Sleep(30 * time.Second)
			store.Add(&Result{ID: "new"})
			time.Sleep(31 * time.Second)
			if removed := store.Purge(); removed != 1 {
				t.Errorf("expected 1 purged result, got %d", removed)
			}
			if _, ok := store.Get("new"); !ok {
				t.Error("expected new result to be kept")
			}
		})
	})
}
