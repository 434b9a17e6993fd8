// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides optional values for provider fields that may be missing.
package vartype

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is printed for values the weather provider did not deliver.
const Placeholder = "n/a"

type (
	// VarFloat64 is an optional float64 value.
	VarFloat64 = Variable[float64]

	// VarString is an optional string value.
	VarString = Variable[string]
)

// Variable holds a value and whether it was ever set.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable returns a Variable that is set to value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// Reset clears the value and marks the Variable as unset.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value returns the stored value, which is the zero value if unset.
func (v *Variable[T]) Value() T {
	return v.value
}

// Or returns the stored value, or fallback if the Variable is unset.
func (v *Variable[T]) Or(fallback T) T {
	if !v.isset {
		return fallback
	}
	return v.value
}

// Set assigns val and marks the Variable as set.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet reports whether the Variable holds a value.
func (v *Variable[T]) IsSet() bool {
	return v.isset
}

func (v Variable[T]) String() string {
	if !v.isset {
		return Placeholder
	}
	return fmt.Sprint(v.value)
}

// ParseFloat64 parses a provider field. Empty fields result in an unset value.
func ParseFloat64(raw string) (VarFloat64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return VarFloat64{}, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return VarFloat64{}, fmt.Errorf("failed to parse %q as float: %w", raw, err)
	}
	return NewVariable(val), nil
}
