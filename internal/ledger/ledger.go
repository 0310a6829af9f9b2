// Package ledger keeps the weekly record of special-duty rotation picks.
//
// A Ledger lives for one week in memory. The assignment engine reads it to
// decide who should take each special duty and writes the day's picks back.
// Ledgers are not safe for concurrent use; callers serialize access.
package ledger

import (
	"strings"

	"github.com/evanschultz/rota/internal/domain"
)

// Ledger is an insertion-ordered set of rotation records keyed by (day, task).
type Ledger struct {
	records []domain.RotationRecord
}

// New returns an empty ledger for the start of a week.
func New() *Ledger {
	return &Ledger{}
}

// FromRecords rebuilds a ledger by replaying records through Record.
func FromRecords(records []domain.RotationRecord) *Ledger {
	l := New()
	for _, rec := range records {
		l.Record(rec.Day, rec.Task, rec.Worker)
	}
	return l
}

// Record upserts the pick for (day, task). A replaced entry keeps its slot.
func (l *Ledger) Record(day domain.Day, task, worker string) {
	task = strings.TrimSpace(task)
	worker = strings.TrimSpace(worker)
	for idx := range l.records {
		if l.records[idx].Day == day && l.records[idx].Task == task {
			l.records[idx].Worker = worker
			return
		}
	}
	l.records = append(l.records, domain.RotationRecord{Day: day, Task: task, Worker: worker})
}

// ForgetDay drops every record for day.
func (l *Ledger) ForgetDay(day domain.Day) {
	kept := l.records[:0]
	for _, rec := range l.records {
		if rec.Day != day {
			kept = append(kept, rec)
		}
	}
	clear(l.records[len(kept):])
	l.records = kept
}

// Reset clears all records for a new week.
func (l *Ledger) Reset() {
	l.records = nil
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// WeekToDateRecords returns every record in insertion order.
func (l *Ledger) WeekToDateRecords() []domain.RotationRecord {
	return append([]domain.RotationRecord(nil), l.records...)
}

// WeekToDateRecordsExcluding returns every record not on day, in insertion order.
func (l *Ledger) WeekToDateRecordsExcluding(day domain.Day) []domain.RotationRecord {
	out := make([]domain.RotationRecord, 0, len(l.records))
	for _, rec := range l.records {
		if rec.Day != day {
			out = append(out, rec)
		}
	}
	return out
}

// WorkersWhoHeldTask returns the workers with at least one record for task.
func (l *Ledger) WorkersWhoHeldTask(task string) map[string]struct{} {
	return heldTask(l.records, task, nil)
}

// WorkersWhoHeldTaskExcluding is WorkersWhoHeldTask ignoring records on day.
func (l *Ledger) WorkersWhoHeldTaskExcluding(task string, day domain.Day) map[string]struct{} {
	return heldTask(l.records, task, &day)
}

// SpecialDutyCountThisWeek counts records held by worker across all tasks and days.
func (l *Ledger) SpecialDutyCountThisWeek(worker string) int {
	return dutyCount(l.records, worker, nil)
}

// SpecialDutyCountExcluding is SpecialDutyCountThisWeek ignoring records on day.
func (l *Ledger) SpecialDutyCountExcluding(worker string, day domain.Day) int {
	return dutyCount(l.records, worker, &day)
}

// heldTask collects workers holding task, optionally skipping one day.
func heldTask(records []domain.RotationRecord, task string, skip *domain.Day) map[string]struct{} {
	task = strings.TrimSpace(task)
	out := map[string]struct{}{}
	for _, rec := range records {
		if skip != nil && rec.Day == *skip {
			continue
		}
		if rec.Task == task {
			out[rec.Worker] = struct{}{}
		}
	}
	return out
}

// dutyCount counts records held by worker, optionally skipping one day.
func dutyCount(records []domain.RotationRecord, worker string, skip *domain.Day) int {
	worker = strings.TrimSpace(worker)
	count := 0
	for _, rec := range records {
		if skip != nil && rec.Day == *skip {
			continue
		}
		if rec.Worker == worker {
			count++
		}
	}
	return count
}
