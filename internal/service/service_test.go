// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/wneessen/outfit-planner/internal/config"
	"github.com/wneessen/outfit-planner/internal/http"
	"github.com/wneessen/outfit-planner/internal/i18n"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/planner"
	"github.com/wneessen/outfit-planner/internal/weather"
)

func TestNew(t *testing.T) {
	t.Run("new service succeeds", func(t *testing.T) {
		if _, err := testService(t); err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
	})
	t.Run("new service fails without dependencies", func(t *testing.T) {
		conf, err := config.New()
		if err != nil {
			t.Fatal(err)
		}
		tr, err := i18n.New("en")
		if err != nil {
			t.Fatal(err)
		}
		log := logger.NewLogger(slog.LevelError, io.Discard)
		if _, err = New(nil, log, tr); err == nil {
			t.Error("expected error without config")
		}
		if _, err = New(conf, nil, tr); err == nil {
			t.Error("expected error without logger")
		}
		if _, err = New(conf, log, nil); err == nil {
			t.Error("expected error without translator")
		}
	})
	t.Run("initializing service with different weather providers", func(t *testing.T) {
		tests := []struct {
			name        string
			provider    string
			requiresKey bool
			wantFail    bool
		}{
			{"visual crossing", "visualcrossing", true, false},
			{"open-meteo", "open-meteo", false, false},
			{"unsupported provider", "invalid", false, true},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Setenv("OUTFITPLANNER_WEATHER_PROVIDER", tc.provider)
				serv, err := testService(t)
				if tc.wantFail {
					if err == nil {
						t.Fatal("expected service creation to fail")
					}
					return
				}
				if err != nil {
					t.Fatalf("failed to create service: %s", err)
				}
				if serv.planner.RequiresKey() != tc.requiresKey {
					t.Errorf("expected requires key to be %t", tc.requiresKey)
				}
				if !strings.Contains(serv.cache.Name(), tc.provider) {
					t.Errorf("expected provider name to contain %q, got %q", tc.provider, serv.cache.Name())
				}
			})
		}
	})
}

func TestService_selectProvider(t *testing.T) {
	serv, err := testService(t)
	if err != nil {
		t.Fatalf("failed to create service: %s", err)
	}
	client := http.New(serv.logger)
	t.Run("nominatim is the supported geocoder", func(t *testing.T) {
		coder, err := serv.selectGeocodeProvider(client)
		if err != nil {
			t.Fatalf("failed to select geocode provider: %s", err)
		}
		if !strings.Contains(coder.Name(), "osm-nominatim") {
			t.Errorf("unexpected geocoder name: %s", coder.Name())
		}
	})
	t.Run("unsupported geocoders fail", func(t *testing.T) {
		serv.config.GeoCoder.Provider = "invalid"
		defer func() { serv.config.GeoCoder.Provider = "nominatim" }()
		_, err := serv.selectGeocodeProvider(client)
		if err == nil {
			t.Fatal("expected geocode provider selection to fail")
		}
		if !strings.Contains(err.Error(), "unsupported geocoder type: invalid") {
			t.Errorf("unexpected error: %s", err)
		}
	})
	t.Run("unsupported weather providers fail", func(t *testing.T) {
		serv.config.Weather.Provider = "invalid"
		defer func() { serv.config.Weather.Provider = "visualcrossing" }()
		_, err := serv.selectWeatherProvider(client, serv.geocoder)
		if err == nil {
			t.Fatal("expected weather provider selection to fail")
		}
		if !strings.Contains(err.Error(), "unsupported weather provider: invalid") {
			t.Errorf("unexpected error: %s", err)
		}
	})
}

func TestService_Run(t *testing.T) {
	t.Run("start the service and gracefully shut it down", func(t *testing.T) {
		t.Setenv("OUTFITPLANNER_SERVER_LISTEN", "127.0.0.1:0")
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		serv.SignalSrc = &mockSignalSource{}

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- serv.Run(ctx) }()

		time.Sleep(time.Millisecond * 100)
		cancel()
		select {
		case err = <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %s", err)
			}
		case <-time.After(time.Second * 5):
			t.Fatal("service did not shut down")
		}
	})
	t.Run("running the service fails on an invalid listen address", func(t *testing.T) {
		t.Setenv("OUTFITPLANNER_SERVER_LISTEN", "invalid-address")
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		serv.SignalSrc = &mockSignalSource{}
		err = serv.Run(t.Context())
		if err == nil {
			t.Fatal("expected service to fail")
		}
		if !strings.Contains(err.Error(), "failed to serve HTTP") {
			t.Errorf("unexpected error: %s", err)
		}
	})
	t.Run("running the service fails with an invalid purge interval", func(t *testing.T) {
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		serv.config.Intervals.CachePurge = 0
		err = serv.Run(t.Context())
		if err == nil {
			t.Fatal("expected service to fail")
		}
		if !strings.Contains(err.Error(), "failed to create cache_purge_job") {
			t.Errorf("unexpected error: %s", err)
		}
	})
}

func TestService_RunOnce(t *testing.T) {
	t.Run("a missing API key fails before any request", func(t *testing.T) {
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		err = serv.RunOnce(t.Context(), buf, "Bengaluru,India", 7)
		if !errors.Is(err, planner.ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
		if serv.cache.Len() != 0 {
			t.Errorf("expected empty weather cache, got %d entries", serv.cache.Len())
		}
	})
	t.Run("an invalid horizon is rejected", func(t *testing.T) {
		t.Setenv("OUTFITPLANNER_WEATHER_APIKEY", "secret")
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		err = serv.RunOnce(t.Context(), io.Discard, "Bengaluru,India", 5)
		if !errors.Is(err, planner.ErrInvalidHorizon) {
			t.Errorf("expected ErrInvalidHorizon, got %v", err)
		}
	})
}

func TestService_HandleSignals(t *testing.T) {
	t.Run("USR1 signal purges the caches", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		buf := &syncBuffer{buf: bytes.NewBuffer(nil)}
		serv.logger = logger.NewLogger(slog.LevelDebug, buf)
		sigChan := make(chan os.Signal, 1)
		go serv.HandleSignals(ctx, sigChan)

		sigChan <- syscall.SIGUSR1
		time.Sleep(time.Millisecond * 100)
		wantLog := `msg="expired cache entries purged" weather=0 geocoder=0 runs=0`
		if !strings.Contains(buf.String(), wantLog) {
			t.Errorf("expected log to contain %q, got %q", wantLog, buf.String())
		}
	})
	t.Run("USR2 signal logs cache statistics", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		buf := &syncBuffer{buf: bytes.NewBuffer(nil)}
		serv.logger = logger.NewLogger(slog.LevelInfo, buf)
		serv.store.Add(&planner.Result{ID: "run", History: &weather.History{}})
		sigChan := make(chan os.Signal, 1)
		go serv.HandleSignals(ctx, sigChan)

		sigChan <- syscall.SIGUSR2
		time.Sleep(time.Millisecond * 100)
		wantLog := `msg="cache statistics" weather=0 geocoder=0 runs=1`
		if !strings.Contains(buf.String(), wantLog) {
			t.Errorf("expected log to contain %q, got %q", wantLog, buf.String())
		}
	})
}

func testService(t *testing.T) (*Service, error) {
	t.Helper()
	conf, err := config.New()
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(conf.LogLevel, io.Discard)
	tr, err := i18n.New("en")
	if err != nil {
		return nil, err
	}
	return New(conf, log, tr)
}

type (
	mockSignalSource struct{}
	syncBuffer       struct {
		mu  sync.Mutex
		buf *bytes.Buffer
	}
)

func (mockSignalSource) Notify(chan<- os.Signal, ...os.Signal) {}
func (mockSignalSource) Stop(chan<- os.Signal)                 {}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
