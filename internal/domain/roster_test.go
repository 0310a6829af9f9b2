package domain

import (
	"errors"
	"testing"
)

func TestRosterAvailableOn(t *testing.T) {
	roster, err := NewRoster([]Worker{
		{ID: 3, Name: "Christopher", Active: true},
		{ID: 1, Name: "Sergio", Active: true},
		{ID: 2, Name: "Marvin", Active: false},
		{ID: 4, Name: "Esteban", Active: true},
	}, []Availability{
		{WorkerID: 1, Day: Monday, Available: true},
		{WorkerID: 2, Day: Monday, Available: true},
		{WorkerID: 3, Day: Monday, Available: true},
		{WorkerID: 4, Day: Monday, Available: false},
		{WorkerID: 1, Day: Sunday, Available: false},
	})
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}

	got := roster.AvailableOn(Monday)
	if len(got) != 2 || got[0].Name != "Sergio" || got[1].Name != "Christopher" {
		t.Fatalf("AvailableOn(monday) = %#v", got)
	}
	if got := roster.AvailableOn(Tuesday); len(got) != 0 {
		t.Fatalf("expected missing entries to mean unavailable, got %#v", got)
	}
	if state := roster.State(4, Tuesday); state != AvailabilityUnknown {
		t.Fatalf("State(4, tuesday) = %v, want unknown", state)
	}
	if state := roster.State(1, Sunday); state != AvailabilityNo {
		t.Fatalf("State(1, sunday) = %v, want no", state)
	}
	if entries := roster.Entries(); len(entries) != 5 || entries[0].WorkerID != 1 {
		t.Fatalf("unexpected entries %#v", entries)
	}
}

func TestRosterValidation(t *testing.T) {
	if _, err := NewRoster([]Worker{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}, nil); !errors.Is(err, ErrDuplicateWorker) {
		t.Fatalf("expected ErrDuplicateWorker, got %v", err)
	}
	if _, err := NewRoster([]Worker{{ID: 1, Name: "a"}}, []Availability{{WorkerID: 2, Day: Monday}}); !errors.Is(err, ErrUnknownWorker) {
		t.Fatalf("expected ErrUnknownWorker, got %v", err)
	}
	if _, err := NewWorker(-1, "a", "", true); !errors.Is(err, ErrInvalidWorkerID) {
		t.Fatalf("expected ErrInvalidWorkerID, got %v", err)
	}
}

func TestPlanSummary(t *testing.T) {
	plan := AssignmentPlan{
		Day: Monday,
		Assignments: []WorkerAssignment{
			{Worker: "a", Items: []PlanItem{{Name: "T1", Intensity: 2, Special: true}, {Name: "x", Intensity: 3}}, TotalIntensity: 5, ItemCount: 2, SpecialTask: "T1"},
			{Worker: "b", Items: []PlanItem{{Name: "y", Intensity: 4}}, TotalIntensity: 4, ItemCount: 1},
		},
	}
	summary := plan.Summary()
	if summary.TotalIntensity != 9 || summary.ItemCount != 3 || summary.SpecialCount != 1 {
		t.Fatalf("unexpected summary %#v", summary)
	}
	if summary.AverageIntensity != 4.5 || summary.MaxIntensity != 5 || summary.MinIntensity != 4 {
		t.Fatalf("unexpected spread %#v", summary)
	}
	if picks := plan.SpecialAssignments(); len(picks) != 1 || picks[0].Worker != "a" {
		t.Fatalf("SpecialAssignments() = %#v", picks)
	}
}
