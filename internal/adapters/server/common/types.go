// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"

	"github.com/evanschultz/rota/internal/domain"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrNothingToAssign reports a day with no catalog items or no available workers.
var ErrNothingToAssign = errors.New("nothing to assign")

// AssignRequest captures one day-assignment request. Nil flags fall back to
// the configured defaults.
type AssignRequest struct {
	Day       string `json:"day"`
	Weighted  *bool  `json:"weighted,omitempty"`
	Randomize *bool  `json:"randomize,omitempty"`
}

// PlanResponse wraps a generated plan with its distribution summary.
type PlanResponse struct {
	domain.AssignmentPlan
	Summary domain.PlanSummary `json:"summary"`
}

// WorkerTally counts one worker's special duties for the week.
type WorkerTally struct {
	Worker string         `json:"worker"`
	Total  int            `json:"total"`
	ByTask map[string]int `json:"by_task"`
}

// HistoryResponse carries the week's rotation records and per-worker counts.
type HistoryResponse struct {
	Records []domain.RotationRecord `json:"records"`
	Tallies []WorkerTally           `json:"tallies"`
}

// AvailabilityEntry is one worker's availability keyed by day identifier.
type AvailabilityEntry struct {
	Worker string            `json:"worker"`
	Active bool              `json:"active"`
	Days   map[string]string `json:"days"`
}

// ResetResponse reports how many rotation records a reset cleared.
type ResetResponse struct {
	Cleared int `json:"cleared"`
}

// RotationService captures the rotation operations exposed over HTTP and MCP.
type RotationService interface {
	AssignDay(context.Context, AssignRequest) (PlanResponse, error)
	Plan(context.Context, string) (PlanResponse, error)
	History(context.Context) (HistoryResponse, error)
	ResetWeek(context.Context) (ResetResponse, error)
	Availability(context.Context) ([]AvailabilityEntry, error)
}
