// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/outfit-planner/internal/geocode"
	"github.com/wneessen/outfit-planner/internal/vartype"
)

// DateFormat is the layout of a calendar day as exchanged with the weather APIs.
const DateFormat = "2006-01-02"

// DefaultLookback is the number of past days fetched when a Query does not set Days.
const DefaultLookback = 365

// ErrNoRecords is returned when a provider answered successfully but delivered no days.
var ErrNoRecords = errors.New("weather provider returned no records")

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	// RequiresKey reports whether the provider needs an API key in the Query.
	RequiresKey() bool
	History(ctx context.Context, query Query) (*History, error)
}

// Query describes a historical lookup.
type Query struct {
	APIKey   string
	Location string
	// Days is the lookback window, ending with End.
	Days int
	// End is the last day of the window. The zero value means yesterday.
	End time.Time
}

// Record is one observed day.
type Record struct {
	Date          time.Time
	Temperature   float64
	Precipitation float64

	TempMax    vartype.VarFloat64
	TempMin    vartype.VarFloat64
	Humidity   vartype.VarFloat64
	WindSpeed  vartype.VarFloat64
	PrecipProb vartype.VarFloat64
	Conditions string
}

// History is the result of a historical lookup, with records in chronological order.
type History struct {
	Provider    string
	Location    string
	Coordinates geocode.Coordinate
	Records     []Record
	FetchedAt   time.Time
	CacheHit    bool
}

// APIError is returned when the weather API answered with a non-success status code.
// Message holds the text the API sent along, so it can be shown to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather API returned status %d: %s", e.StatusCode, e.Message)
}

// NewAPIError builds an APIError from a raw response body.
func NewAPIError(code int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = fmt.Sprintf("HTTP status %d", code)
	}
	return &APIError{StatusCode: code, Message: msg}
}

// Window returns the first and last day of the lookback window of the query, both
// truncated to midnight UTC.
func (q Query) Window(now time.Time) (time.Time, time.Time) {
	end := q.End
	if end.IsZero() {
		end = now.AddDate(0, 0, -1)
	}
	end = Day(end)
	days := q.Days
	if days <= 0 {
		days = DefaultLookback
	}
	return end.AddDate(0, 0, -days), end
}

// Day truncates t to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Last returns the n most recent records of the history.
func (h *History) Last(n int) []Record {
	if h == nil || n <= 0 {
		return nil
	}
	if n >= len(h.Records) {
		return h.Records
	}
	return h.Records[len(h.Records)-n:]
}

// LastDate returns the date of the most recent record.
func (h *History) LastDate() (time.Time, bool) {
	if h == nil || len(h.Records) == 0 {
		return time.Time{}, false
	}
	return h.Records[len(h.Records)-1].Date, true
}
