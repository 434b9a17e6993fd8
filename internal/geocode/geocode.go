// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// coordPattern matches locations given as "lat,lon", e.g. "12.9716,77.5946".
var coordPattern = regexp.MustCompile(`^\s*(-?\d{1,2}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*$`)

// Coordinate represents a geographic coordinate.
type Coordinate struct {
	Lat float64
	Lon float64

	CacheHit bool
	Found    bool
}

// Geocoder resolves a free-text location into coordinates.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, address string) (Coordinate, error)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// ParseCoordinate returns the coordinates of a location that is given in "lat,lon"
// form. The second return value is false for any other location format.
func ParseCoordinate(location string) (Coordinate, bool) {
	matches := coordPattern.FindStringSubmatch(location)
	if matches == nil {
		return Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(matches[1], 64)
	if err != nil || lat < -90 || lat > 90 {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(matches[2], 64)
	if err != nil || lon < -180 || lon > 180 {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lon: lon, Found: true}, true
}
