// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/outfit-planner/internal/config"
	"github.com/wneessen/outfit-planner/internal/i18n"
	"github.com/wneessen/outfit-planner/internal/outfit"
	"github.com/wneessen/outfit-planner/internal/planner"
	"github.com/wneessen/outfit-planner/internal/weather"
)

// HistoryDays is the number of most recent historical days shown on the result page.
const HistoryDays = 7

//go:embed templates/*.html
var templates embed.FS

// Form holds the values of the planning form.
type Form struct {
	APIKey   string
	Location string
	Horizon  int
}

// HistoryView is an observed day formatted for display.
type HistoryView struct {
	Date          time.Time
	Temperature   float64
	Precipitation float64
	TempMax       string
	TempMin       string
	Humidity      string
	Conditions    string
}

// ForecastView wraps a Recommendation with presentation-related fields.
type ForecastView struct {
	outfit.Recommendation

	OutfitText    string
	MoonPhase     string
	MoonPhaseIcon string
	SunriseTime   time.Time
	SunsetTime    time.Time
}

// PageView is the template context of the planner page.
type PageView struct {
	Form        Form
	Horizons    []uint
	RequiresKey bool

	Warning string
	Error   string
	Status  []string

	RunID     string
	FetchedAt time.Time
	CacheHit  bool
	HasSun    bool
	History   []HistoryView
	Forecast  []ForecastView
	Chart     template.HTML
	Exports   []string
}

type Presenter struct {
	tr          *i18n.Translator
	page        *template.Template
	requiresKey bool
}

// New returns a Presenter rendering in the language of tr. requiresKey controls
// whether the form asks for an API key.
func New(tr *i18n.Translator, requiresKey bool) (*Presenter, error) {
	p := &Presenter{tr: tr, requiresKey: requiresKey}
	page, err := template.New("page.html").Funcs(p.templateFuncMap()).ParseFS(templates, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	p.page = page
	return p, nil
}

// Page returns the view of an empty form.
func (p *Presenter) Page(form Form) PageView {
	return PageView{
		Form:        form,
		Horizons:    config.Horizons,
		RequiresKey: p.requiresKey,
	}
}

// Warning returns the form view with a warning identified by its message key.
func (p *Presenter) Warning(form Form, key string) PageView {
	view := p.Page(form)
	view.Warning = p.loc(key)
	return view
}

// APIError returns the form view with the message sent by the weather API.
func (p *Presenter) APIError(form Form, err *weather.APIError) PageView {
	view := p.Page(form)
	view.Error = p.loc("apierror") + err.Message
	return view
}

// Failure returns the form view for an unexpected error.
func (p *Presenter) Failure(form Form) PageView {
	view := p.Page(form)
	view.Error = p.loc("failure")
	return view
}

// Result returns the view of a completed run.
func (p *Presenter) Result(form Form, result *planner.Result) (PageView, error) {
	view := p.Page(form)
	view.Status = []string{p.loc("fetched"), p.loc("ready")}
	view.RunID = result.ID
	view.Exports = ExportFormats
	view.FetchedAt = result.History.FetchedAt
	view.CacheHit = result.History.CacheHit
	view.HasSun = result.History.Coordinates.Found
	view.History = p.HistoryViews(result.History)
	view.Forecast = p.ForecastViews(result)

	chart, err := p.Chart(result)
	if err != nil {
		return view, err
	}
	view.Chart = chart
	return view, nil
}

// Render writes the page for view to w.
func (p *Presenter) Render(w io.Writer, view PageView) error {
	if err := p.page.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// HistoryViews returns the most recent HistoryDays records of hist.
func (p *Presenter) HistoryViews(hist *weather.History) []HistoryView {
	records := hist.Last(HistoryDays)
	views := make([]HistoryView, 0, len(records))
	for _, rec := range records {
		views = append(views, HistoryView{
			Date:          rec.Date,
			Temperature:   rec.Temperature,
			Precipitation: rec.Precipitation,
			TempMax:       rec.TempMax.String(),
			TempMin:       rec.TempMin.String(),
			Humidity:      rec.Humidity.String(),
			Conditions:    rec.Conditions,
		})
	}
	return views
}

// ForecastViews adds the localized outfit, the moon phase and, if the location has
// coordinates, sunrise and sunset to each recommendation of result.
func (p *Presenter) ForecastViews(result *planner.Result) []ForecastView {
	coords := result.History.Coordinates
	views := make([]ForecastView, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		// Moon phase at noon, so the phase reflects the day rather than midnight
		moon := moonphase.New(rec.Date.Add(12 * time.Hour))
		view := ForecastView{
			Recommendation: rec,
			OutfitText:     p.loc(rec.Outfit.Text),
			MoonPhase:      p.loc(moon.PhaseName()),
			MoonPhaseIcon:  MoonPhaseIcon[moon.PhaseName()],
		}
		if coords.Found {
			view.SunriseTime, view.SunsetTime = sunrise.SunriseSunset(coords.Lat, coords.Lon,
				rec.Date.Year(), rec.Date.Month(), rec.Date.Day())
		}
		views = append(views, view)
	}
	return views
}
