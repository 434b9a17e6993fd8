// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/outfit-planner/internal/geocode"
	nominatim "github.com/wneessen/outfit-planner/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/outfit-planner/internal/http"
	"github.com/wneessen/outfit-planner/internal/weather"
	openmeteo "github.com/wneessen/outfit-planner/internal/weather/provider/open-meteo"
	"github.com/wneessen/outfit-planner/internal/weather/provider/visualcrossing"
)

const (
	cacheHitTTL  = 24 * time.Hour
	cacheMissTTL = time.Hour
)

func (s *Service) selectGeocodeProvider(client *http.Client) (*geocode.CachedGeocoder, error) {
	switch strings.ToLower(s.config.GeoCoder.Provider) {
	case "nominatim":
		return geocode.NewCachedGeocoder(nominatim.New(client, s.t.Language()), cacheHitTTL, cacheMissTTL), nil
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", s.config.GeoCoder.Provider)
	}
}

func (s *Service) selectWeatherProvider(client *http.Client, coder geocode.Geocoder) (provider weather.Provider, err error) {
	switch strings.ToLower(s.config.Weather.Provider) {
	case "visualcrossing":
		provider, err = visualcrossing.New(client, s.logger)
		if err != nil {
			return provider, fmt.Errorf("failed to create Visual Crossing weather provider: %w", err)
		}
	case "open-meteo":
		provider, err = openmeteo.New(coder, s.logger)
		if err != nil {
			return provider, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", s.config.Weather.Provider)
	}
	return provider, nil
}
