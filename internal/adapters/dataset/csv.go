package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evanschultz/rota/internal/domain"
)

// CSV file names looked up by LoadDir.
const (
	WorkersFile      = "engineers.csv"
	AvailabilityFile = "availability.csv"
	ItemsFile        = "accounts.csv"
)

// fallbackIntensity replaces intensity values that are not numbers.
const fallbackIntensity = 2

// ErrMissingColumn reports a CSV header without a required column.
var ErrMissingColumn = errors.New("missing column")

// LoadDir reads the three CSV files from dir. A file that does not exist is
// replaced by the matching part of Defaults.
func LoadDir(dir string) (domain.Dataset, error) {
	var (
		out domain.Dataset
		err error
	)
	if out.Workers, err = loadCSVFile(dir, WorkersFile, ParseWorkersCSV, defaultWorkers); err != nil {
		return domain.Dataset{}, err
	}
	if out.Availability, err = loadCSVFile(dir, AvailabilityFile, ParseAvailabilityCSV, defaultAvailability); err != nil {
		return domain.Dataset{}, err
	}
	if out.Items, err = loadCSVFile(dir, ItemsFile, ParseItemsCSV, defaultItems); err != nil {
		return domain.Dataset{}, err
	}
	return out, nil
}

func loadCSVFile[T any](dir, name string, parse func(io.Reader) ([]T, error), fallback func() []T) ([]T, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fallback(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	out, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ParseWorkersCSV reads engineer_id, engineer_name, shift, and active columns.
// shift and active are optional; a missing active column means active.
func ParseWorkersCSV(r io.Reader) ([]domain.Worker, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idCol := header.find("engineer_id", "worker_id", "id")
	nameCol := header.find("engineer_name", "worker_name", "name")
	if idCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("%w: need engineer_id and engineer_name", ErrMissingColumn)
	}
	shiftCol := header.find("shift")
	activeCol := header.find("active")

	out := make([]domain.Worker, 0, len(rows))
	for idx, row := range rows {
		id, err := strconv.Atoi(cell(row, idCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: worker id %q: %w", idx+2, cell(row, idCol), err)
		}
		active := true
		if activeCol >= 0 {
			active = truthy(cell(row, activeCol))
		}
		worker, err := domain.NewWorker(id, cell(row, nameCol), cell(row, shiftCol), active)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx+2, err)
		}
		out = append(out, worker)
	}
	return out, nil
}

// ParseAvailabilityCSV reads engineer_id, day, and available columns.
func ParseAvailabilityCSV(r io.Reader) ([]domain.Availability, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idCol := header.find("engineer_id", "worker_id", "id")
	dayCol := header.find("day")
	availableCol := header.find("available")
	if idCol < 0 || dayCol < 0 || availableCol < 0 {
		return nil, fmt.Errorf("%w: need engineer_id, day and available", ErrMissingColumn)
	}

	out := make([]domain.Availability, 0, len(rows))
	for idx, row := range rows {
		id, err := strconv.Atoi(cell(row, idCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: worker id %q: %w", idx+2, cell(row, idCol), err)
		}
		day, err := domain.ParseDay(cell(row, dayCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx+2, err)
		}
		out = append(out, domain.Availability{
			WorkerID:  id,
			Day:       day,
			Available: truthy(cell(row, availableCol)),
		})
	}
	return out, nil
}

// ParseItemsCSV reads the account list. The first column whose name contains
// "intensity" holds the weight; without one every item weighs 1, and values
// that are not numbers weigh 2. The name column is "account", or else the
// first column containing "account" or "name".
func ParseItemsCSV(r io.Reader) ([]domain.WorkItem, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	nameCol := header.find("account")
	if nameCol < 0 {
		nameCol = header.findContaining("account", "name")
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: need an account or name column", ErrMissingColumn)
	}
	intensityCol := header.findContaining("intensity")

	out := make([]domain.WorkItem, 0, len(rows))
	for idx, row := range rows {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		intensity := 1
		if intensityCol >= 0 {
			parsed, err := strconv.Atoi(cell(row, intensityCol))
			if err != nil {
				parsed = fallbackIntensity
			}
			intensity = parsed
		}
		item, err := domain.NewWorkItem(name, intensity, false)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx+2, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// csvHeader maps trimmed, lower-cased column names to positions.
type csvHeader []string

func (h csvHeader) find(names ...string) int {
	for _, name := range names {
		for idx, col := range h {
			if col == name {
				return idx
			}
		}
	}
	return -1
}

func (h csvHeader) findContaining(parts ...string) int {
	for idx, col := range h {
		for _, part := range parts {
			if strings.Contains(col, part) {
				return idx
			}
		}
	}
	return -1
}

func readCSV(r io.Reader) (csvHeader, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty csv", ErrMissingColumn)
	}
	header := make(csvHeader, 0, len(records[0]))
	for idx, col := range records[0] {
		if idx == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		header = append(header, strings.ToLower(strings.TrimSpace(col)))
	}
	return header, records[1:], nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1", "si", "sí":
		return true
	default:
		return false
	}
}
