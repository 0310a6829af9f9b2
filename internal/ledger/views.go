package ledger

import (
	"sort"

	"github.com/evanschultz/rota/internal/domain"
)

// History returns all records ordered by day, keeping insertion order within a day.
func (l *Ledger) History() []domain.RotationRecord {
	out := l.WeekToDateRecords()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day < out[j].Day
	})
	return out
}

// RecordsForDay returns the records for one day in insertion order.
func (l *Ledger) RecordsForDay(day domain.Day) []domain.RotationRecord {
	out := make([]domain.RotationRecord, 0, 2)
	for _, rec := range l.records {
		if rec.Day == day {
			out = append(out, rec)
		}
	}
	return out
}

// ByDay groups records per day.
func (l *Ledger) ByDay() map[domain.Day][]domain.RotationRecord {
	out := make(map[domain.Day][]domain.RotationRecord, 7)
	for _, rec := range l.records {
		out[rec.Day] = append(out[rec.Day], rec)
	}
	return out
}

// WorkerTally counts one worker's special duties for the week.
type WorkerTally struct {
	Worker string         `json:"worker"`
	Total  int            `json:"total"`
	ByTask map[string]int `json:"by_task"`
}

// TaskCounts tallies special duties per worker, ordered by first appearance.
func (l *Ledger) TaskCounts() []WorkerTally {
	index := map[string]int{}
	out := make([]WorkerTally, 0, 4)
	for _, rec := range l.records {
		idx, ok := index[rec.Worker]
		if !ok {
			idx = len(out)
			index[rec.Worker] = idx
			out = append(out, WorkerTally{Worker: rec.Worker, ByTask: map[string]int{}})
		}
		out[idx].Total++
		out[idx].ByTask[rec.Task]++
	}
	return out
}
