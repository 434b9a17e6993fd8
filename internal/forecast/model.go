// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package forecast

import (
	"errors"
	"time"
)

var (
	// ErrInsufficientData is returned by Fit when the series cannot support a model.
	ErrInsufficientData = errors.New("insufficient data to fit model")

	// ErrNotFitted is returned by Predict when Fit did not succeed before.
	ErrNotFitted = errors.New("model has not been fitted")
)

// Point is one observation of a univariate daily series.
type Point struct {
	Date  time.Time
	Value float64
}

// Model is a univariate time-series model. A Model is used by a single goroutine.
type Model interface {
	Fit(series []Point) error
	Predict(dates []time.Time) ([]float64, error)
}

// ModelFactory returns a new, unfitted Model.
type ModelFactory func() Model
