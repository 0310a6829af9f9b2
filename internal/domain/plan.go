package domain

import (
	"strings"
	"time"
)

// RotationRecord notes which worker held one special duty on one day.
type RotationRecord struct {
	Day    Day    `json:"day"`
	Task   string `json:"task"`
	Worker string `json:"worker"`
}

// PlanItem is one entry in a worker's daily list.
type PlanItem struct {
	Name      string `json:"name"`
	Intensity int    `json:"intensity"`
	Special   bool   `json:"special"`
}

// WorkerAssignment is one worker's share of a daily plan.
type WorkerAssignment struct {
	Worker         string     `json:"worker"`
	Items          []PlanItem `json:"items"`
	TotalIntensity int        `json:"total_intensity"`
	ItemCount      int        `json:"item_count"`
	SpecialTask    string     `json:"special_task,omitempty"`
}

// HasSpecial reports whether the worker holds a special duty today.
func (a WorkerAssignment) HasSpecial() bool {
	return a.SpecialTask != ""
}

// AverageIntensity returns the mean intensity per item.
func (a WorkerAssignment) AverageIntensity() float64 {
	if a.ItemCount == 0 {
		return 0
	}
	return float64(a.TotalIntensity) / float64(a.ItemCount)
}

// ItemNames returns the item names in assignment order.
func (a WorkerAssignment) ItemNames() []string {
	out := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		out = append(out, item.Name)
	}
	return out
}

// AssignmentPlan is the output of one day's assignment run.
type AssignmentPlan struct {
	RunID              string             `json:"run_id,omitempty"`
	Day                Day                `json:"day"`
	GeneratedAt        time.Time          `json:"generated_at"`
	Assignments        []WorkerAssignment `json:"assignments"`
	UnassignedSpecials []string           `json:"unassigned_specials,omitempty"`
}

// Empty reports whether no worker received any item.
func (p AssignmentPlan) Empty() bool {
	return len(p.Assignments) == 0
}

// For returns the assignment for one worker.
func (p AssignmentPlan) For(worker string) (WorkerAssignment, bool) {
	worker = strings.TrimSpace(worker)
	for _, assignment := range p.Assignments {
		if assignment.Worker == worker {
			return assignment, true
		}
	}
	return WorkerAssignment{}, false
}

// SpecialAssignments returns the day's special duty picks in assignment order.
func (p AssignmentPlan) SpecialAssignments() []RotationRecord {
	out := make([]RotationRecord, 0, 2)
	for _, assignment := range p.Assignments {
		for _, item := range assignment.Items {
			if item.Special {
				out = append(out, RotationRecord{Day: p.Day, Task: item.Name, Worker: assignment.Worker})
			}
		}
	}
	return out
}

// PlanSummary aggregates distribution metrics for one plan.
type PlanSummary struct {
	Workers          int     `json:"workers"`
	TotalIntensity   int     `json:"total_intensity"`
	AverageIntensity float64 `json:"average_intensity"`
	SpecialCount     int     `json:"special_count"`
	ItemCount        int     `json:"item_count"`
	MaxIntensity     int     `json:"max_intensity"`
	MinIntensity     int     `json:"min_intensity"`
}

// Summary computes distribution metrics across the plan.
func (p AssignmentPlan) Summary() PlanSummary {
	summary := PlanSummary{Workers: len(p.Assignments)}
	for idx, assignment := range p.Assignments {
		summary.TotalIntensity += assignment.TotalIntensity
		summary.ItemCount += assignment.ItemCount
		if assignment.HasSpecial() {
			summary.SpecialCount++
		}
		if idx == 0 || assignment.TotalIntensity > summary.MaxIntensity {
			summary.MaxIntensity = assignment.TotalIntensity
		}
		if idx == 0 || assignment.TotalIntensity < summary.MinIntensity {
			summary.MinIntensity = assignment.TotalIntensity
		}
	}
	if summary.Workers > 0 {
		summary.AverageIntensity = float64(summary.TotalIntensity) / float64(summary.Workers)
	}
	return summary
}
