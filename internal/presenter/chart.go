// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"errors"
	"html/template"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wneessen/outfit-planner/internal/planner"
)

// ChartAssetsHost serves the echarts JavaScript library.
const ChartAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Chart returns the HTML element and script of a line chart with the predicted
// temperature and precipitation of result. The page must load echarts.min.js from
// ChartAssetsHost.
func (p *Presenter) Chart(result *planner.Result) (template.HTML, error) {
	if len(result.Recommendations) == 0 {
		return "", errors.New("no forecast to chart")
	}

	dates := make([]string, len(result.Recommendations))
	temps := make([]opts.LineData, len(result.Recommendations))
	precips := make([]opts.LineData, len(result.Recommendations))
	for i, rec := range result.Recommendations {
		dates[i] = dateFormat(rec.Date)
		temps[i] = opts.LineData{Value: rec.Temperature}
		precips[i] = opts.LineData{Value: rec.Precipitation}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:      "100%",
			Height:     "420px",
			ChartID:    "forecast_" + strings.ReplaceAll(result.ID, "-", ""),
			PageTitle:  p.loc("chart"),
			AssetsHost: ChartAssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    p.loc("chart"),
			Subtitle: result.Location,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "°C / mm"}),
	)
	line.SetXAxis(dates).
		AddSeries(p.loc("predtemp"), temps).
		AddSeries(p.loc("predprecip"), precips)

	snippet := line.RenderSnippet()
	return template.HTML(snippet.Element + snippet.Script), nil //nolint:gosec
}
