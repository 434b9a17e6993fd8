// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package visualcrossing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/wneessen/outfit-planner/internal/geocode"
	ihttp "github.com/wneessen/outfit-planner/internal/http"
	"github.com/wneessen/outfit-planner/internal/logger"
	"github.com/wneessen/outfit-planner/internal/vartype"
	"github.com/wneessen/outfit-planner/internal/weather"
)

const (
	name        = "visualcrossing"
	apiEndpoint = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"
	apiTimeout  = time.Second * 30
)

var (
	ErrMissingKey = errors.New("Visual Crossing API key is required")

	requiredColumns = []string{"datetime", "temp", "precip"}
)

type VisualCrossing struct {
	http     *ihttp.Client
	log      *logger.Logger
	endpoint string
	now      func() time.Time
}

// row is a single day of the timeline CSV. Columns not listed here are ignored.
type row struct {
	Date       csvDate  `csv:"datetime"`
	Temp       csvFloat `csv:"temp"`
	TempMax    csvFloat `csv:"tempmax"`
	TempMin    csvFloat `csv:"tempmin"`
	Precip     csvFloat `csv:"precip"`
	PrecipProb csvFloat `csv:"precipprob"`
	Humidity   csvFloat `csv:"humidity"`
	WindSpeed  csvFloat `csv:"windspeed"`
	Conditions string   `csv:"conditions"`
}

type csvDate struct {
	time.Time
}

type csvFloat struct {
	vartype.VarFloat64
}

func New(client *ihttp.Client, log *logger.Logger) (*VisualCrossing, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &VisualCrossing{http: client, log: log, endpoint: apiEndpoint, now: time.Now}, nil
}

func (v *VisualCrossing) Name() string {
	return name
}

func (v *VisualCrossing) RequiresKey() bool {
	return true
}

// History fetches the daily timeline for the lookback window of the query. Any
// non-200 answer is returned as *weather.APIError carrying the response text.
func (v *VisualCrossing) History(ctx context.Context, query weather.Query) (*weather.History, error) {
	if query.APIKey == "" {
		return nil, ErrMissingKey
	}
	location := strings.TrimSpace(query.Location)
	start, end := query.Window(v.now())

	endpoint := fmt.Sprintf("%s/%s/%s/%s", v.endpoint, url.PathEscape(location),
		start.Format(weather.DateFormat), end.Format(weather.DateFormat))
	params := url.Values{}
	params.Set("unitGroup", "metric")
	params.Set("key", query.APIKey)
	params.Set("include", "days")
	params.Set("contentType", "csv")

	v.log.Debug("fetching weather history", slog.String("provider", name),
		slog.String("location", location), slog.String("start", start.Format(weather.DateFormat)),
		slog.String("end", end.Format(weather.DateFormat)), logger.Secret("key", query.APIKey))

	code, body, err := v.http.GetRaw(ctx, endpoint, params, nil, apiTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve weather history from Visual Crossing API: %w", err)
	}
	if code != http.StatusOK {
		return nil, weather.NewAPIError(code, body)
	}

	records, err := v.parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Visual Crossing CSV response: %w", err)
	}
	if len(records) == 0 {
		return nil, weather.ErrNoRecords
	}

	hist := &weather.History{
		Provider:  name,
		Location:  location,
		Records:   records,
		FetchedAt: v.now(),
	}
	if coords, ok := geocode.ParseCoordinate(location); ok {
		hist.Coordinates = coords
	}
	return hist, nil
}

func (v *VisualCrossing) parse(body []byte) ([]weather.Record, error) {
	header, err := gocsv.LazyCSVReader(bytes.NewReader(body)).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for _, col := range requiredColumns {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("required column %q is missing", col)
		}
	}

	var rows []row
	if err = gocsv.UnmarshalCSV(gocsv.LazyCSVReader(bytes.NewReader(body)), &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, err
	}

	records := make([]weather.Record, 0, len(rows))
	for _, r := range rows {
		if r.Date.IsZero() || !r.Temp.IsSet() {
			v.log.Debug("skipping incomplete day", slog.String("date", r.Date.Format(weather.DateFormat)))
			continue
		}
		records = append(records, weather.Record{
			Date:          r.Date.Time,
			Temperature:   r.Temp.Value(),
			Precipitation: r.Precip.Or(0),
			TempMax:       r.TempMax.VarFloat64,
			TempMin:       r.TempMin.VarFloat64,
			Humidity:      r.Humidity.VarFloat64,
			WindSpeed:     r.WindSpeed.VarFloat64,
			PrecipProb:    r.PrecipProb.VarFloat64,
			Conditions:    r.Conditions,
		})
	}
	slices.SortFunc(records, func(a, b weather.Record) int {
		return a.Date.Compare(b.Date)
	})

	return records, nil
}

func (d *csvDate) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	date, err := time.Parse(weather.DateFormat, value)
	if err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}
	d.Time = date
	return nil
}

func (f *csvFloat) UnmarshalCSV(value string) error {
	val, err := vartype.ParseFloat64(value)
	if err != nil {
		return err
	}
	f.VarFloat64 = val
	return nil
}
