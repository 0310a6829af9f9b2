package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Worker is one person who can take work items.
type Worker struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Shift  string `json:"shift,omitempty" yaml:"shift,omitempty"`
	Active bool   `json:"active" yaml:"active"`
}

// NewWorker validates and constructs a worker.
func NewWorker(id int, name, shift string, active bool) (Worker, error) {
	name = strings.TrimSpace(name)
	if id < 0 {
		return Worker{}, ErrInvalidWorkerID
	}
	if name == "" {
		return Worker{}, ErrInvalidName
	}
	return Worker{
		ID:     id,
		Name:   name,
		Shift:  strings.TrimSpace(shift),
		Active: active,
	}, nil
}

// Availability states whether a worker can be scheduled on one day.
type Availability struct {
	WorkerID  int  `json:"worker_id" yaml:"worker_id"`
	Day       Day  `json:"day" yaml:"day"`
	Available bool `json:"available" yaml:"available"`
}

// AvailabilityState is the tri-state shown in availability matrices.
type AvailabilityState int

// AvailabilityState values.
const (
	AvailabilityUnknown AvailabilityState = iota
	AvailabilityYes
	AvailabilityNo
)

// String returns the lowercase state label.
func (s AvailabilityState) String() string {
	switch s {
	case AvailabilityYes:
		return "yes"
	case AvailabilityNo:
		return "no"
	default:
		return "unknown"
	}
}

// Symbol returns the matrix glyph for the state.
func (s AvailabilityState) Symbol() string {
	switch s {
	case AvailabilityYes:
		return "✅"
	case AvailabilityNo:
		return "❌"
	default:
		return "·"
	}
}

// MarshalText encodes the state label.
func (s AvailabilityState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Roster holds workers in ID order with their weekly availability.
type Roster struct {
	workers      []Worker
	availability map[int]map[Day]bool
}

// NewRoster validates workers and availability entries. Availability for
// unknown worker IDs is rejected; missing entries read as unavailable.
func NewRoster(workers []Worker, entries []Availability) (Roster, error) {
	ordered := make([]Worker, 0, len(workers))
	seenID := make(map[int]struct{}, len(workers))
	seenName := make(map[string]struct{}, len(workers))
	for _, raw := range workers {
		worker, err := NewWorker(raw.ID, raw.Name, raw.Shift, raw.Active)
		if err != nil {
			return Roster{}, err
		}
		if _, ok := seenID[worker.ID]; ok {
			return Roster{}, fmt.Errorf("%w: id %d", ErrDuplicateWorker, worker.ID)
		}
		if _, ok := seenName[worker.Name]; ok {
			return Roster{}, fmt.Errorf("%w: %q", ErrDuplicateWorker, worker.Name)
		}
		seenID[worker.ID] = struct{}{}
		seenName[worker.Name] = struct{}{}
		ordered = append(ordered, worker)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})

	availability := make(map[int]map[Day]bool, len(ordered))
	for _, entry := range entries {
		if _, ok := seenID[entry.WorkerID]; !ok {
			return Roster{}, fmt.Errorf("%w: id %d", ErrUnknownWorker, entry.WorkerID)
		}
		if !entry.Day.Valid() {
			return Roster{}, fmt.Errorf("%w: %d", ErrInvalidDay, int(entry.Day))
		}
		days, ok := availability[entry.WorkerID]
		if !ok {
			days = make(map[Day]bool, 7)
			availability[entry.WorkerID] = days
		}
		days[entry.Day] = entry.Available
	}
	return Roster{workers: ordered, availability: availability}, nil
}

// Workers returns all workers in roster order.
func (r Roster) Workers() []Worker {
	return append([]Worker(nil), r.workers...)
}

// State returns the recorded availability for one worker and day.
func (r Roster) State(workerID int, day Day) AvailabilityState {
	days, ok := r.availability[workerID]
	if !ok {
		return AvailabilityUnknown
	}
	available, ok := days[day]
	switch {
	case !ok:
		return AvailabilityUnknown
	case available:
		return AvailabilityYes
	default:
		return AvailabilityNo
	}
}

// AvailableOn returns the active workers marked available for day, in roster order.
func (r Roster) AvailableOn(day Day) []Worker {
	out := make([]Worker, 0, len(r.workers))
	for _, worker := range r.workers {
		if !worker.Active {
			continue
		}
		if r.State(worker.ID, day) == AvailabilityYes {
			out = append(out, worker)
		}
	}
	return out
}

// Entries flattens the availability table back into entries, ordered by
// worker then day.
func (r Roster) Entries() []Availability {
	out := make([]Availability, 0, len(r.workers)*7)
	for _, worker := range r.workers {
		days := r.availability[worker.ID]
		for _, day := range Week() {
			available, ok := days[day]
			if !ok {
				continue
			}
			out = append(out, Availability{WorkerID: worker.ID, Day: day, Available: available})
		}
	}
	return out
}
