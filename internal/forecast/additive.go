// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package forecast

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultChangepoints is the number of potential trend changepoints.
	DefaultChangepoints = 25

	changepointRange = 0.8
	weeklyOrder      = 3
	yearlyOrder      = 10
	weeklyPeriod     = 7.0
	yearlyPeriod     = 365.25

	// Ridge penalties for the coefficient groups, on the scaled series.
	penaltyTrend       = 1e-6
	penaltyChangepoint = 10.0
	penaltySeasonality = 0.01

	day = 24 * time.Hour
)

// Additive is a decomposable model of the form y(t) = g(t) + s(t), where g is a
// piecewise-linear trend with changepoints and s is the sum of weekly and yearly
// Fourier series. Weekly terms are used when the history spans at least two weeks,
// yearly terms when it spans at least two years. The coefficients are estimated by
// ridge-penalized least squares.
type Additive struct {
	Changepoints int

	start       time.Time
	span        float64
	scale       float64
	changepoint []float64
	weekly      bool
	yearly      bool
	beta        *mat.VecDense
}

// NewAdditive returns an unfitted additive model with n potential changepoints.
func NewAdditive(n int) *Additive {
	return &Additive{Changepoints: n}
}

// AdditiveFactory returns a ModelFactory for additive models with n potential
// changepoints.
func AdditiveFactory(n int) ModelFactory {
	return func() Model {
		return NewAdditive(n)
	}
}

func (a *Additive) Fit(series []Point) error {
	if len(series) < 2 {
		return fmt.Errorf("%w: %d observations", ErrInsufficientData, len(series))
	}
	series = slices.Clone(series)
	slices.SortFunc(series, func(x, y Point) int {
		return x.Date.Compare(y.Date)
	})

	a.start = series[0].Date
	a.span = series[len(series)-1].Date.Sub(a.start).Hours() / 24
	if a.span <= 0 {
		return fmt.Errorf("%w: series spans no time", ErrInsufficientData)
	}

	a.scale = 0
	for _, p := range series {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return fmt.Errorf("non-finite value %f on %s", p.Value, p.Date.Format(time.DateOnly))
		}
		a.scale = math.Max(a.scale, math.Abs(p.Value))
	}
	if a.scale == 0 {
		a.scale = 1
	}

	a.weekly = a.span >= 2*weeklyPeriod
	a.yearly = a.span >= 2*yearlyPeriod
	a.changepoint = a.placeChangepoints(series)

	dates := make([]time.Time, len(series))
	target := mat.NewVecDense(len(series), nil)
	for i, p := range series {
		dates[i] = p.Date
		target.SetVec(i, p.Value/a.scale)
	}
	design := a.design(dates)
	_, cols := design.Dims()

	gram := mat.NewSymDense(cols, nil)
	gram.SymOuterK(1, design.T())
	for i, penalty := range a.penalties(cols) {
		gram.SetSym(i, i, gram.At(i, i)+penalty)
	}
	moment := mat.NewVecDense(cols, nil)
	moment.MulVec(design.T(), target)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return fmt.Errorf("model matrix is not positive definite")
	}
	beta := mat.NewVecDense(cols, nil)
	if err := chol.SolveVecTo(beta, moment); err != nil {
		return fmt.Errorf("failed to solve for model coefficients: %w", err)
	}
	a.beta = beta

	return nil
}

func (a *Additive) Predict(dates []time.Time) ([]float64, error) {
	if a.beta == nil {
		return nil, ErrNotFitted
	}
	if len(dates) == 0 {
		return nil, nil
	}
	design := a.design(dates)
	result := mat.NewVecDense(len(dates), nil)
	result.MulVec(design, a.beta)

	values := make([]float64, len(dates))
	for i := range values {
		values[i] = result.AtVec(i) * a.scale
	}
	return values, nil
}

// placeChangepoints spreads the potential changepoints uniformly over the
// observations in the first part of the history.
func (a *Additive) placeChangepoints(series []Point) []float64 {
	limit := int(math.Floor(float64(len(series)) * changepointRange))
	n := a.Changepoints
	if n > limit-1 {
		n = limit - 1
	}
	if n <= 0 {
		return nil
	}

	points := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		idx := int(math.Round(float64(i) * float64(limit-1) / float64(n)))
		points = append(points, a.scaled(series[idx].Date))
	}
	return points
}

// design returns the model matrix for dates; one row per date.
func (a *Additive) design(dates []time.Time) *mat.Dense {
	cols := 2 + len(a.changepoint)
	if a.weekly {
		cols += 2 * weeklyOrder
	}
	if a.yearly {
		cols += 2 * yearlyOrder
	}

	design := mat.NewDense(len(dates), cols, nil)
	for i, date := range dates {
		t := a.scaled(date)
		design.Set(i, 0, 1)
		design.Set(i, 1, t)
		col := 2
		for _, cp := range a.changepoint {
			design.Set(i, col, math.Max(0, t-cp))
			col++
		}
		epochDays := float64(date.Unix()) / day.Seconds()
		if a.weekly {
			col = fourier(design, i, col, epochDays, weeklyPeriod, weeklyOrder)
		}
		if a.yearly {
			fourier(design, i, col, epochDays, yearlyPeriod, yearlyOrder)
		}
	}
	return design
}

func (a *Additive) penalties(cols int) []float64 {
	penalties := make([]float64, cols)
	for i := range penalties {
		switch {
		case i < 2:
			penalties[i] = penaltyTrend
		case i < 2+len(a.changepoint):
			penalties[i] = penaltyChangepoint
		default:
			penalties[i] = penaltySeasonality
		}
	}
	return penalties
}

// scaled maps date to model time, where 0 is the first and 1 the last observation.
func (a *Additive) scaled(date time.Time) float64 {
	return date.Sub(a.start).Hours() / 24 / a.span
}

func fourier(design *mat.Dense, row, col int, t, period float64, order int) int {
	for k := 1; k <= order; k++ {
		x := 2 * math.Pi * float64(k) * t / period
		design.Set(row, col, math.Sin(x))
		design.Set(row, col+1, math.Cos(x))
		col += 2
	}
	return col
}
