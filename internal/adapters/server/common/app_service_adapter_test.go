package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evanschultz/rota/internal/adapters/dataset"
	"github.com/evanschultz/rota/internal/adapters/storage/sqlite"
	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/domain"
)

// newTestAdapter builds an adapter over a seeded in-memory repository.
func newTestAdapter(t *testing.T) *AppServiceAdapter {
	t.Helper()
	repo, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := app.NewService(repo, func() string { return "run-1" }, func() time.Time { return now }, app.ServiceConfig{
		Weighted: true,
	})
	if _, err := svc.EnsureSeeded(context.Background(), dataset.Defaults()); err != nil {
		t.Fatalf("EnsureSeeded() error = %v", err)
	}
	return NewAppServiceAdapter(svc)
}

// TestAppServiceAdapterAssignAndHistory verifies plans flow into week history.
func TestAppServiceAdapterAssignAndHistory(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	plan, err := adapter.AssignDay(ctx, AssignRequest{Day: "mon"})
	if err != nil {
		t.Fatalf("AssignDay() error = %v", err)
	}
	if plan.Day != domain.Monday || plan.RunID != "run-1" {
		t.Fatalf("unexpected plan header %#v", plan.AssignmentPlan)
	}
	if plan.Summary.Workers != 4 || plan.Summary.SpecialCount != 2 {
		t.Fatalf("unexpected summary %#v", plan.Summary)
	}

	got, err := adapter.Plan(ctx, "Monday")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got.RunID != plan.RunID {
		t.Fatalf("Plan() run_id = %q, want %q", got.RunID, plan.RunID)
	}

	history, err := adapter.History(ctx)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history.Records) != 2 || len(history.Tallies) != 2 {
		t.Fatalf("unexpected history %#v", history)
	}

	reset, err := adapter.ResetWeek(ctx)
	if err != nil {
		t.Fatalf("ResetWeek() error = %v", err)
	}
	if reset.Cleared != 2 {
		t.Fatalf("cleared = %d, want 2", reset.Cleared)
	}
	if _, err := adapter.Plan(ctx, "monday"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after reset, got %v", err)
	}
}

// TestAppServiceAdapterErrorMapping verifies transport error classes.
func TestAppServiceAdapterErrorMapping(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	if _, err := adapter.AssignDay(ctx, AssignRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing day, got %v", err)
	}
	if _, err := adapter.AssignDay(ctx, AssignRequest{Day: "someday"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad day, got %v", err)
	}
	if _, err := adapter.AssignDay(ctx, AssignRequest{Day: "sunday"}); !errors.Is(err, ErrNothingToAssign) {
		t.Fatalf("expected ErrNothingToAssign on sunday, got %v", err)
	}

	var nilAdapter *AppServiceAdapter
	if _, err := nilAdapter.History(ctx); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected unconfigured adapter error, got %v", err)
	}
}

// TestAppServiceAdapterAvailability verifies day-keyed availability rows.
func TestAppServiceAdapterAvailability(t *testing.T) {
	adapter := newTestAdapter(t)
	rows, err := adapter.Availability(context.Background())
	if err != nil {
		t.Fatalf("Availability() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 workers, got %d", len(rows))
	}
	if rows[0].Days["monday"] != "yes" || rows[0].Days["sunday"] != "no" {
		t.Fatalf("unexpected availability %#v", rows[0].Days)
	}
}
