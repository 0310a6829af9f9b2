package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/domain"
)

// AppServiceAdapter maps transport contracts onto app.Service rotation APIs.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// AssignDay generates one day's plan through the app service.
func (a *AppServiceAdapter) AssignDay(ctx context.Context, in AssignRequest) (PlanResponse, error) {
	if a == nil || a.service == nil {
		return PlanResponse{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	day, err := parseDay(in.Day)
	if err != nil {
		return PlanResponse{}, err
	}
	input := a.service.DefaultAssignInput(day)
	if in.Weighted != nil {
		input.Weighted = *in.Weighted
	}
	if in.Randomize != nil {
		input.Randomize = *in.Randomize
	}
	plan, err := a.service.AssignDay(ctx, input)
	if err != nil {
		return PlanResponse{}, mapAppError("assign day", err)
	}
	return newPlanResponse(plan), nil
}

// Plan returns the most recent plan generated for one day.
func (a *AppServiceAdapter) Plan(_ context.Context, rawDay string) (PlanResponse, error) {
	if a == nil || a.service == nil {
		return PlanResponse{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	day, err := parseDay(rawDay)
	if err != nil {
		return PlanResponse{}, err
	}
	plan, err := a.service.LastPlan(day)
	if err != nil {
		return PlanResponse{}, mapAppError("get plan", err)
	}
	return newPlanResponse(plan), nil
}

// History returns the week's rotation records and tallies.
func (a *AppServiceAdapter) History(_ context.Context) (HistoryResponse, error) {
	if a == nil || a.service == nil {
		return HistoryResponse{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	out := HistoryResponse{
		Records: a.service.History(),
		Tallies: []WorkerTally{},
	}
	if out.Records == nil {
		out.Records = []domain.RotationRecord{}
	}
	for _, tally := range a.service.WorkerTallies() {
		out.Tallies = append(out.Tallies, WorkerTally{
			Worker: tally.Worker,
			Total:  tally.Total,
			ByTask: tally.ByTask,
		})
	}
	return out, nil
}

// ResetWeek clears the week's rotation history.
func (a *AppServiceAdapter) ResetWeek(_ context.Context) (ResetResponse, error) {
	if a == nil || a.service == nil {
		return ResetResponse{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	cleared := len(a.service.History())
	a.service.ResetWeek()
	return ResetResponse{Cleared: cleared}, nil
}

// Availability returns the weekly availability matrix keyed by day identifier.
func (a *AppServiceAdapter) Availability(ctx context.Context) ([]AvailabilityEntry, error) {
	if a == nil || a.service == nil {
		return nil, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	rows, err := a.service.AvailabilityMatrix(ctx)
	if err != nil {
		return nil, mapAppError("availability", err)
	}
	out := make([]AvailabilityEntry, 0, len(rows))
	for _, row := range rows {
		entry := AvailabilityEntry{
			Worker: row.Worker,
			Active: row.Active,
			Days:   make(map[string]string, len(row.Days)),
		}
		for idx, state := range row.Days {
			entry.Days[domain.Day(idx).String()] = state.String()
		}
		out = append(out, entry)
	}
	return out, nil
}

// newPlanResponse attaches the distribution summary to a plan.
func newPlanResponse(plan domain.AssignmentPlan) PlanResponse {
	if plan.Assignments == nil {
		plan.Assignments = []domain.WorkerAssignment{}
	}
	return PlanResponse{AssignmentPlan: plan, Summary: plan.Summary()}
}

// parseDay parses a required day argument.
func parseDay(raw string) (domain.Day, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("day is required: %w", ErrInvalidRequest)
	}
	day, err := domain.ParseDay(raw)
	if err != nil {
		return 0, errors.Join(ErrInvalidRequest, err)
	}
	return day, nil
}

// mapAppError maps app and domain errors onto transport error classes.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, app.ErrNoPlan), errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, app.ErrEmptyCatalog), errors.Is(err, app.ErrNoAvailableWorkers):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNothingToAssign, err))
	case errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidIntensity),
		errors.Is(err, domain.ErrInvalidWorkerID):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
