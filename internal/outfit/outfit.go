// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package outfit maps predicted weather to clothing suggestions.
package outfit

import (
	"github.com/wneessen/outfit-planner/internal/forecast"
)

const (
	// ColdBelow is the temperature in °C below which a jacket is suggested.
	ColdBelow = 20.0
	// HotAbove is the temperature in °C above which shorts are suggested.
	HotAbove = 30.0
	// RainFrom is the precipitation in mm from which rain gear is suggested.
	RainFrom = 5.0
)

// Outfit is a clothing suggestion with a decorative icon.
type Outfit struct {
	Icon string
	Text string
}

var (
	Jacket   = Outfit{Icon: "🧥", Text: "Jacket"}
	RainGear = Outfit{Icon: "🌧️", Text: "Raincoat, umbrella, waterproof shoes"}
	Casual   = Outfit{Icon: "👕", Text: "T-shirt and jeans"}
	Summer   = Outfit{Icon: "🩳", Text: "Shorts, sunglasses"}
)

// Recommendation is a forecast day together with its suggested outfit.
type Recommendation struct {
	forecast.Record
	Outfit Outfit
}

func (o Outfit) String() string {
	return o.Icon + " " + o.Text
}

// Suggest returns the outfit for a day with the given temperature in °C and
// precipitation in mm. Inputs that match no other rule, such as NaN, get the
// hot-weather outfit.
func Suggest(temperature, precipitation float64) Outfit {
	switch {
	case temperature < ColdBelow:
		return Jacket
	case temperature >= ColdBelow && temperature <= HotAbove:
		if precipitation >= RainFrom {
			return RainGear
		}
		return Casual
	default:
		return Summer
	}
}

// Apply suggests an outfit for each forecast day.
func Apply(records []forecast.Record) []Recommendation {
	recommendations := make([]Recommendation, len(records))
	for i, rec := range records {
		recommendations[i] = Recommendation{
			Record: rec,
			Outfit: Suggest(rec.Temperature, rec.Precipitation),
		}
	}
	return recommendations
}
