// Package export writes assignment plans as CSV or JSON documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/evanschultz/rota/internal/domain"
)

// Format names an export encoding.
type Format string

// Format values.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat reports an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat normalizes a format flag value.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// csvHeader lists the exported plan columns.
var csvHeader = []string{"Worker", "Items", "Item Count", "Total Intensity", "Special Task", "Day", "Generated At"}

// FileName returns the conventional download name for a plan export.
func FileName(day domain.Day, format Format) string {
	return fmt.Sprintf("assignments_%s.%s", day, format)
}

// Write encodes plans in format. Several plans are written as one document.
func Write(w io.Writer, format Format, plans ...domain.AssignmentPlan) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, plans...)
	case FormatJSON:
		return WriteJSON(w, plans...)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteCSV writes one row per worker per plan.
func WriteCSV(w io.Writer, plans ...domain.AssignmentPlan) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, plan := range plans {
		for _, assignment := range plan.Assignments {
			record := []string{
				assignment.Worker,
				strings.Join(assignment.ItemNames(), ", "),
				strconv.Itoa(assignment.ItemCount),
				strconv.Itoa(assignment.TotalIntensity),
				assignment.SpecialTask,
				plan.Day.Title(),
				formatGeneratedAt(plan.GeneratedAt),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("write csv row for %s: %w", assignment.Worker, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// jsonPlan is the exported JSON shape of one plan.
type jsonPlan struct {
	domain.AssignmentPlan
	Summary domain.PlanSummary `json:"summary"`
}

// WriteJSON writes plans with their summaries, indented.
func WriteJSON(w io.Writer, plans ...domain.AssignmentPlan) error {
	docs := make([]jsonPlan, 0, len(plans))
	for _, plan := range plans {
		docs = append(docs, jsonPlan{AssignmentPlan: plan, Summary: plan.Summary()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var err error
	if len(docs) == 1 {
		err = enc.Encode(docs[0])
	} else {
		err = enc.Encode(docs)
	}
	if err != nil {
		return fmt.Errorf("encode plan json: %w", err)
	}
	return nil
}

func formatGeneratedAt(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format("2006-01-02 15:04:05")
}
