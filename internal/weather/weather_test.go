// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"strings"
	"testing"
	"time"
)

func TestQuery_Window(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 37, 0, 0, time.UTC)
	t.Run("the default window ends yesterday and spans 365 days", func(t *testing.T) {
		start, end := Query{}.Window(now)
		wantEnd := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		if !end.Equal(wantEnd) {
			t.Errorf("expected end to be %s, got %s", wantEnd, end)
		}
		if days := int(end.Sub(start).Hours() / 24); days != DefaultLookback {
			t.Errorf("expected window of %d days, got %d", DefaultLookback, days)
		}
	})
	t.Run("an explicit end and lookback are honored", func(t *testing.T) {
		query := Query{Days: 30, End: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)}
		start, end := query.Window(now)
		if got := end.Format(DateFormat); got != "2024-12-31" {
			t.Errorf("expected end to be 2024-12-31, got %s", got)
		}
		if got := start.Format(DateFormat); got != "2024-12-01" {
			t.Errorf("expected start to be 2024-12-01, got %s", got)
		}
	})
}

func TestHistory_Last(t *testing.T) {
	hist := &History{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 10 {
		hist.Records = append(hist.Records, Record{Date: base.AddDate(0, 0, i), Temperature: float64(i)})
	}
	t.Run("the most recent records are returned", func(t *testing.T) {
		last := hist.Last(7)
		if len(last) != 7 {
			t.Fatalf("expected 7 records, got %d", len(last))
		}
		if last[0].Temperature != 3 || last[6].Temperature != 9 {
			t.Errorf("unexpected records: first %f, last %f", last[0].Temperature, last[6].Temperature)
		}
	})
	t.Run("asking for more records than available returns all", func(t *testing.T) {
		if got := len(hist.Last(20)); got != 10 {
			t.Errorf("expected 10 records, got %d", got)
		}
	})
	t.Run("a nil history returns nothing", func(t *testing.T) {
		var empty *History
		if got := empty.Last(7); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
		if _, ok := empty.LastDate(); ok {
			t.Error("expected no last date")
		}
	})
	t.Run("the last date is the date of the last record", func(t *testing.T) {
		date, ok := hist.LastDate()
		if !ok {
			t.Fatal("expected a last date")
		}
		if !date.Equal(base.AddDate(0, 0, 9)) {
			t.Errorf("expected last date to be %s, got %s", base.AddDate(0, 0, 9), date)
		}
	})
}

func TestNewAPIError(t *testing.T) {
	t.Run("the body text becomes the message", func(t *testing.T) {
		err := NewAPIError(401, []byte("No account found with API key 'abc'\n"))
		if err.Message != "No account found with API key 'abc'" {
			t.Errorf("unexpected message: %q", err.Message)
		}
		if !strings.Contains(err.Error(), "401") {
			t.Errorf("expected error string to contain the status code, got %q", err.Error())
		}
	})
	t.Run("an empty body falls back to the status code", func(t *testing.T) {
		err := NewAPIError(500, nil)
		if err.Message != "HTTP status 500" {
			t.Errorf("unexpected message: %q", err.Message)
		}
	})
}
