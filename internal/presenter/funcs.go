// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/outfit-planner/internal/weather"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"dateFormat":    dateFormat,
		"localizedTime": p.localizedTime,
		"floatFormat":   floatFormat,
		"loc":           p.loc,
	}
}

// loc translates a template key or message text. Unknown values are returned as is.
func (p *Presenter) loc(val string) string {
	if raw, ok := i18nVars[strings.ToLower(val)]; ok {
		return p.tr.Text(raw)
	}
	return val
}

// localizedTime returns the clock time of val, or an empty string for the zero time.
func (p *Presenter) localizedTime(val time.Time) string {
	if val.IsZero() {
		return ""
	}
	return p.tr.Clock(val)
}

func dateFormat(val time.Time) string {
	return val.Format(weather.DateFormat)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}
