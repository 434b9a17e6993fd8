// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/wneessen/outfit-planner/internal/planner"
)

// ExportFormats lists the formats a run can be downloaded in.
var ExportFormats = []string{"csv", "json", "yaml"}

var ErrUnknownFormat = errors.New("unknown export format")

// ExportRow is a forecast day in downloadable form.
type ExportRow struct {
	Date          string  `csv:"date" json:"date" yaml:"date"`
	Temperature   float64 `csv:"pred_temp" json:"pred_temp" yaml:"pred_temp"`
	Precipitation float64 `csv:"pred_rain" json:"pred_rain" yaml:"pred_rain"`
	Outfit        string  `csv:"outfit" json:"outfit" yaml:"outfit"`
}

// ExportDocument is a run in downloadable form, used by the JSON and YAML exports.
type ExportDocument struct {
	ID        string      `json:"id" yaml:"id"`
	Location  string      `json:"location" yaml:"location"`
	Horizon   int         `json:"horizon" yaml:"horizon"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	Forecast  []ExportRow `json:"forecast" yaml:"forecast"`
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) (string, error) {
	switch format {
	case "csv":
		return "text/csv; charset=utf-8", nil
	case "json":
		return "application/json", nil
	case "yaml":
		return "application/yaml", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Export writes the recommendations of result to w in the given format.
func Export(w io.Writer, format string, result *planner.Result) error {
	rows := exportRows(result)
	switch format {
	case "csv":
		if err := gocsv.Marshal(&rows, w); err != nil {
			return fmt.Errorf("failed to encode CSV: %w", err)
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exportDocument(result, rows)); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(exportDocument(result, rows)); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return nil
}

// Filename returns the download file name of a run export.
func Filename(result *planner.Result, format string) string {
	return fmt.Sprintf("outfit-plan-%s.%s", result.CreatedAt.Format("20060102-150405"), format)
}

func exportRows(result *planner.Result) []ExportRow {
	rows := make([]ExportRow, len(result.Recommendations))
	for i, rec := range result.Recommendations {
		rows[i] = ExportRow{
			Date:          dateFormat(rec.Date),
			Temperature:   rec.Temperature,
			Precipitation: rec.Precipitation,
			Outfit:        rec.Outfit.String(),
		}
	}
	return rows
}

func exportDocument(result *planner.Result, rows []ExportRow) ExportDocument {
	return ExportDocument{
		ID:        result.ID,
		Location:  result.Location,
		Horizon:   result.Horizon,
		CreatedAt: result.CreatedAt,
		Forecast:  rows,
	}
}
