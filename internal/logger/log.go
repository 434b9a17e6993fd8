// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps a slog.Logger so it can be passed around the application.
type Logger struct {
	*slog.Logger
}

// New returns a text logger writing to stderr with the given minimum level.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a text logger writing to output with the given minimum level.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns an slog attribute for the given error.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

// Secret returns an slog attribute that only reveals the last four characters of a
// credential, so API keys never end up in the logs.
func Secret(key, value string) slog.Attr {
	if len(value) <= 4 {
		return slog.String(key, strings.Repeat("*", len(value)))
	}
	return slog.String(key, strings.Repeat("*", len(value)-4)+value[len(value)-4:])
}
