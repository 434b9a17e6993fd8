// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/outfit-planner/internal/planner"
)

// RenderText writes the history and forecast tables of result as aligned plain
// text, as used by the command line mode.
func (p *Presenter) RenderText(w io.Writer, result *planner.Result) error {
	history := [][]string{{p.loc("date"), p.loc("temperature"), p.loc("precipitation"), p.loc("conditions")}}
	for _, view := range p.HistoryViews(result.History) {
		history = append(history, []string{
			dateFormat(view.Date), floatFormat(view.Temperature, 1), floatFormat(view.Precipitation, 1),
			view.Conditions,
		})
	}

	hasSun := result.History.Coordinates.Found
	header := []string{p.loc("date"), p.loc("temperature"), p.loc("precipitation"), p.loc("outfit"), p.loc("moonphase")}
	if hasSun {
		header = append(header, p.loc("sunrise"), p.loc("sunset"))
	}
	forecast := [][]string{header}
	for _, view := range p.ForecastViews(result) {
		row := []string{
			dateFormat(view.Date), floatFormat(view.Temperature, 1), floatFormat(view.Precipitation, 1),
			view.Outfit.Icon + " " + view.OutfitText, view.MoonPhaseIcon + " " + view.MoonPhase,
		}
		if hasSun {
			row = append(row, p.localizedTime(view.SunriseTime), p.localizedTime(view.SunsetTime))
		}
		forecast = append(forecast, row)
	}

	sections := []struct {
		title string
		rows  [][]string
	}{
		{p.loc("history"), history},
		{p.loc("planner"), forecast},
	}
	for i, section := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", section.title); err != nil {
			return err
		}
		if err := writeTable(w, section.rows); err != nil {
			return err
		}
	}
	return nil
}

// writeTable writes rows with columns padded to their widest cell. Cell widths are
// measured in terminal cells, so emoji and East Asian characters line up.
func writeTable(w io.Writer, rows [][]string) error {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
		if r == 0 {
			rules := make([]string, len(widths))
			for i, width := range widths {
				rules[i] = strings.Repeat("-", width)
			}
			if _, err := fmt.Fprintln(w, strings.Join(rules, "  ")); err != nil {
				return err
			}
		}
	}
	return nil
}
