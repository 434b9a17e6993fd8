// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "OUTFITPLANNER"

	DefaultLocation = "Bengaluru,India"
)

// Horizons lists the forecast horizons (in days) a user can choose from.
var Horizons = []uint{7, 14, 30, 60, 90}

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Server struct {
		Listen            string        `fig:"listen" default:":8080"`
		ReadHeaderTimeout time.Duration `fig:"read_header_timeout" default:"5s"`
		ShutdownTimeout   time.Duration `fig:"shutdown_timeout" default:"10s"`
	} `fig:"server"`

	Weather struct {
		// Allowed values: visualcrossing, open-meteo
		Provider string `fig:"provider" default:"visualcrossing"`
		// Only used in CLI mode; the web form always asks for the key
		APIKey string `fig:"apikey"`
		// Allowed values: 30 to 730
		LookbackDays uint          `fig:"lookback_days" default:"365"`
		CacheTTL     time.Duration `fig:"cache_ttl" default:"24h"`
		RateLimit    float64       `fig:"rate_limit" default:"1"`
		RateBurst    int           `fig:"rate_burst" default:"2"`
	} `fig:"weather"`

	Forecast struct {
		DefaultHorizon uint `fig:"default_horizon" default:"30"`
		Changepoints   int  `fig:"changepoints" default:"25"`
	} `fig:"forecast"`

	Intervals struct {
		CachePurge time.Duration `fig:"cache_purge" default:"1h"`
		RunTTL     time.Duration `fig:"run_ttl" default:"1h"`
	} `fig:"intervals"`

	GeoCoder struct {
		// Allowed values: nominatim
		Provider string `fig:"provider" default:"nominatim"`
	} `fig:"geocoder"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	switch strings.ToLower(c.Weather.Provider) {
	case "visualcrossing", "open-meteo":
	default:
		return fmt.Errorf("invalid weather provider: %s", c.Weather.Provider)
	}
	if c.Weather.LookbackDays < 30 || c.Weather.LookbackDays > 730 {
		return fmt.Errorf("invalid lookback days: %d", c.Weather.LookbackDays)
	}
	if c.Weather.RateLimit <= 0 || c.Weather.RateBurst < 1 {
		return fmt.Errorf("invalid rate limit: %f req/s with burst %d", c.Weather.RateLimit,
			c.Weather.RateBurst)
	}
	if !slices.Contains(Horizons, c.Forecast.DefaultHorizon) {
		return fmt.Errorf("invalid default horizon: %d", c.Forecast.DefaultHorizon)
	}
	if c.Forecast.Changepoints < 0 {
		return fmt.Errorf("invalid number of changepoints: %d", c.Forecast.Changepoints)
	}
	if c.GeoCoder.Provider != "nominatim" {
		return fmt.Errorf("unsupported geocoder type: %s", c.GeoCoder.Provider)
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
