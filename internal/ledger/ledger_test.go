package ledger

import (
	"testing"

	"github.com/evanschultz/rota/internal/domain"
)

func TestLedgerRecordUpsertsByDayAndTask(t *testing.T) {
	l := New()
	l.Record(domain.Monday, "EoS Report", "Sergio")
	l.Record(domain.Monday, "DCOSS Monitoring", "Marvin")
	l.Record(domain.Monday, "EoS Report", "Esteban")

	got := l.WeekToDateRecords()
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %#v", got)
	}
	if got[0].Task != "EoS Report" || got[0].Worker != "Esteban" {
		t.Fatalf("expected upsert to keep slot and replace worker, got %#v", got[0])
	}
	if got[1].Worker != "Marvin" {
		t.Fatalf("unexpected second record %#v", got[1])
	}
}

func TestLedgerQueries(t *testing.T) {
	l := New()
	l.Record(domain.Monday, "T1", "a")
	l.Record(domain.Monday, "T2", "b")
	l.Record(domain.Tuesday, "T1", "b")
	l.Record(domain.Wednesday, "T2", "a")

	held := l.WorkersWhoHeldTask("T1")
	if _, ok := held["a"]; !ok || len(held) != 2 {
		t.Fatalf("unexpected T1 holders %#v", held)
	}
	held = l.WorkersWhoHeldTaskExcluding("T1", domain.Tuesday)
	if _, ok := held["b"]; ok || len(held) != 1 {
		t.Fatalf("expected tuesday excluded from T1 holders, got %#v", held)
	}
	if got := l.SpecialDutyCountThisWeek("a"); got != 2 {
		t.Fatalf("SpecialDutyCountThisWeek(a) = %d, want 2", got)
	}
	if got := l.SpecialDutyCountExcluding("b", domain.Monday); got != 1 {
		t.Fatalf("SpecialDutyCountExcluding(b, monday) = %d, want 1", got)
	}
	if got := l.SpecialDutyCountThisWeek("nobody"); got != 0 {
		t.Fatalf("SpecialDutyCountThisWeek(nobody) = %d, want 0", got)
	}
	if got := l.WeekToDateRecordsExcluding(domain.Monday); len(got) != 2 {
		t.Fatalf("WeekToDateRecordsExcluding(monday) = %#v", got)
	}
}

func TestLedgerReset(t *testing.T) {
	l := New()
	l.Record(domain.Monday, "T1", "a")
	l.Record(domain.Friday, "T2", "b")
	l.Reset()

	for _, task := range []string{"T1", "T2"} {
		if got := l.WorkersWhoHeldTask(task); len(got) != 0 {
			t.Fatalf("WorkersWhoHeldTask(%s) after reset = %#v", task, got)
		}
	}
	for _, worker := range []string{"a", "b"} {
		if got := l.SpecialDutyCountThisWeek(worker); got != 0 {
			t.Fatalf("SpecialDutyCountThisWeek(%s) after reset = %d", worker, got)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d records", l.Len())
	}
}

func TestLedgerForgetDay(t *testing.T) {
	l := New()
	l.Record(domain.Monday, "T1", "a")
	l.Record(domain.Tuesday, "T1", "b")
	l.Record(domain.Monday, "T2", "c")
	l.ForgetDay(domain.Monday)

	got := l.WeekToDateRecords()
	if len(got) != 1 || got[0].Day != domain.Tuesday {
		t.Fatalf("ForgetDay(monday) left %#v", got)
	}
}

func TestLedgerViews(t *testing.T) {
	l := FromRecords([]domain.RotationRecord{
		{Day: domain.Wednesday, Task: "T1", Worker: "a"},
		{Day: domain.Monday, Task: "T1", Worker: "b"},
		{Day: domain.Monday, Task: "T2", Worker: "a"},
	})

	history := l.History()
	if history[0].Day != domain.Monday || history[0].Task != "T1" || history[1].Task != "T2" || history[2].Day != domain.Wednesday {
		t.Fatalf("unexpected history order %#v", history)
	}
	if got := l.RecordsForDay(domain.Monday); len(got) != 2 {
		t.Fatalf("RecordsForDay(monday) = %#v", got)
	}
	if got := l.ByDay(); len(got[domain.Wednesday]) != 1 || len(got[domain.Sunday]) != 0 {
		t.Fatalf("ByDay() = %#v", got)
	}

	tallies := l.TaskCounts()
	if len(tallies) != 2 || tallies[0].Worker != "a" || tallies[0].Total != 2 || tallies[0].ByTask["T1"] != 1 {
		t.Fatalf("unexpected tallies %#v", tallies)
	}
}
