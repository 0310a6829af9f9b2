package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evanschultz/rota/internal/domain"
)

// ErrEmptyDocument reports a YAML dataset with no content.
var ErrEmptyDocument = errors.New("dataset document is empty")

// yamlDocument is the on-disk YAML layout. Availability is listed per worker
// as day names.
type yamlDocument struct {
	Workers []yamlWorker   `yaml:"workers"`
	Items   []yamlWorkItem `yaml:"items"`
}

type yamlWorker struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Shift       string   `yaml:"shift"`
	Active      *bool    `yaml:"active"`
	Available   []string `yaml:"available"`
	Unavailable []string `yaml:"unavailable"`
}

type yamlWorkItem struct {
	Name      string `yaml:"name"`
	Intensity int    `yaml:"intensity"`
}

// ParseYAML decodes a dataset from YAML bytes.
func ParseYAML(data []byte) (domain.Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Dataset{}, ErrEmptyDocument
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	var out domain.Dataset
	for _, raw := range doc.Workers {
		active := true
		if raw.Active != nil {
			active = *raw.Active
		}
		worker, err := domain.NewWorker(raw.ID, raw.Name, raw.Shift, active)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("worker %d: %w", raw.ID, err)
		}
		out.Workers = append(out.Workers, worker)
		entries, err := availabilityEntries(raw.ID, raw.Available, raw.Unavailable)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("worker %q: %w", worker.Name, err)
		}
		out.Availability = append(out.Availability, entries...)
	}
	for _, raw := range doc.Items {
		intensity := raw.Intensity
		if intensity == 0 {
			intensity = 1
		}
		item, err := domain.NewWorkItem(raw.Name, intensity, false)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("item %q: %w", raw.Name, err)
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// availabilityEntries expands day lists into entries. The word "all" in the
// available list covers the whole week; unavailable days override it.
func availabilityEntries(workerID int, available, unavailable []string) ([]domain.Availability, error) {
	state := make(map[domain.Day]bool, 7)
	for _, raw := range available {
		if strings.EqualFold(strings.TrimSpace(raw), "all") {
			for _, day := range domain.Week() {
				state[day] = true
			}
			continue
		}
		day, err := domain.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		state[day] = true
	}
	for _, raw := range unavailable {
		day, err := domain.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		state[day] = false
	}
	out := make([]domain.Availability, 0, len(state))
	for _, day := range domain.Week() {
		available, ok := state[day]
		if !ok {
			continue
		}
		out = append(out, domain.Availability{WorkerID: workerID, Day: day, Available: available})
	}
	return out, nil
}

// LoadYAMLReader reads a YAML dataset from r.
func LoadYAMLReader(r io.Reader) (domain.Dataset, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return ParseYAML(content)
}

// LoadYAMLFile reads a YAML dataset from path.
func LoadYAMLFile(path string) (domain.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := ParseYAML(content)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Load reads a dataset from a YAML file or from a directory of CSV files.
func Load(path string) (domain.Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Dataset{}, errors.New("dataset path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAMLFile(path)
	default:
		return domain.Dataset{}, fmt.Errorf("unsupported dataset file %s: want a .yaml file or a CSV directory", path)
	}
}
