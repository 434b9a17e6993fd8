// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux || darwin || freebsd

// Package main implements the outfit-planner service.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wneessen/outfit-planner/internal/config"
	"github.com/wneessen/outfit-planner/internal/i18n"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/service"
	"github.com/wneessen/outfit-planner/internal/weather"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	once := flag.Bool("once", false, "run a single forecast, print it and exit")
	location := flag.String("location", config.DefaultLocation, "location to forecast in -once mode")
	days := flag.Int("days", 0, "days to forecast in -once mode (default from config)")
	flag.Parse()

	// A missing .env file is fine, the environment may be set otherwise
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error("failed to load .env file", logger.Err(err))
		os.Exit(1)
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log = logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}

	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize outfit-planner service", logger.Err(err))
		os.Exit(1)
	}

	if *once {
		horizon := *days
		if horizon == 0 {
			horizon = int(conf.Forecast.DefaultHorizon) //nolint:gosec
		}
		if err = serv.RunOnce(ctx, os.Stdout, *location, horizon); err != nil {
			var apiErr *weather.APIError
			if errors.As(err, &apiErr) {
				log.Error("weather API error", slog.Int("status", apiErr.StatusCode),
					slog.String("message", apiErr.Message))
				os.Exit(1)
			}
			log.Error("failed to create forecast", logger.Err(err))
			os.Exit(1)
		}
		return
	}

	log.Info("starting outfit-planner service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("outfit-planner service failed", logger.Err(err))
	}
	log.Info("shutting down outfit-planner service")
}

// loadConfig reads the config file given by confPath, or the first config file found
// in the default location, or falls back to defaults and environment variables.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "outfit-planner", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
