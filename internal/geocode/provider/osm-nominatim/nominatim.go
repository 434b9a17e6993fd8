// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/outfit-planner/internal/geocode"
	"github.com/wneessen/outfit-planner/internal/http"
)

const (
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	APITimeout        = time.Second * 10
	name              = "osm-nominatim"
)

type Nominatim struct {
	http     *http.Client
	lang     language.Tag
	endpoint string
}

type SearchResult struct {
	APILat      string `json:"lat"`
	APILon      string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang:     lang,
		http:     client,
		endpoint: APISearchEndpoint,
	}
}

func (n *Nominatim) Name() string {
	return name
}

// Search resolves a free-text address to coordinates. An address without results is
// not an error; the returned coordinate simply has Found set to false.
func (n *Nominatim) Search(ctx context.Context, address string) (geocode.Coordinate, error) {
	var result []SearchResult
	var err error

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("limit", "1")
	query.Set("q", address)
	query.Set("accept-language", n.lang.String())

	if _, err = n.http.GetWithTimeout(ctx, n.endpoint, &result, query, nil, APITimeout); err != nil {
		return geocode.Coordinate{}, fmt.Errorf("failed to fetch address details from Nominatim API: %w", err)
	}
	if len(result) < 1 {
		return geocode.Coordinate{}, nil
	}

	coords := geocode.Coordinate{Found: true}
	coords.Lat, err = strconv.ParseFloat(result[0].APILat, 64)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	coords.Lon, err = strconv.ParseFloat(result[0].APILon, 64)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}

	return coords, nil
}
