// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// i18nVars maps lower-case keys used in templates and data to their message IDs.
var i18nVars = map[string]localize.MsgID{
	"title":         "Dynamic Weather Forecast + Outfit Planner",
	"apikey":        "Enter Visual Crossing API Key",
	"location":      "Enter Location (e.g., Bengaluru,India)",
	"horizon":       "Days to Forecast",
	"submit":        "Fetch & Predict",
	"fetching":      "Fetching past 1 year data...",
	"training":      "Training + predicting...",
	"fetched":       "Data fetched!",
	"ready":         "Forecast ready!",
	"history":       "Past 7 Days Real Weather",
	"planner":       "Outfit Planner",
	"chart":         "Forecast Chart",
	"missing":       "Please enter API key and location!",
	"badhorizon":    "Please choose a valid number of days!",
	"apierror":      "API Error: ",
	"failure":       "Something went wrong while creating the forecast.",
	"date":          "Date",
	"temperature":   "Temperature",
	"precipitation": "Precipitation",
	"outfit":        "Outfit",
	"moonphase":     "Moon phase",
	"sunrise":       "Sunrise",
	"sunset":        "Sunset",
	"conditions":    "Conditions",
	"humidity":      "Humidity",
	"predtemp":      "Predicted temperature",
	"predprecip":    "Predicted precipitation",
	"download":      "Download",

	"jacket":                               "Jacket",
	"raincoat, umbrella, waterproof shoes": "Raincoat, umbrella, waterproof shoes",
	"t-shirt and jeans":                    "T-shirt and jeans",
	"shorts, sunglasses":                   "Shorts, sunglasses",

	"new moon":        "New Moon",
	"waxing crescent": "Waxing Crescent",
	"first quarter":   "First Quarter",
	"waxing gibbous":  "Waxing Gibbous",
	"full moon":       "Full Moon",
	"waning gibbous":  "Waning Gibbous",
	"third quarter":   "Third Quarter",
	"waning crescent": "Waning Crescent",
}
