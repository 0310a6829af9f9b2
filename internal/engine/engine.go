// Package engine computes daily assignment plans.
//
// Assign runs two phases. Phase A rotates special duties across the available
// workers using the weekly ledger: a worker who already held a duty this week
// is skipped for it while anyone else can take it, and nobody takes two
// special duties on the same day. Phase B spreads the regular items with a
// greedy least-loaded heuristic seeded from the Phase A loads.
//
// Only Phase A touches the ledger. Given the same ledger state, options, and
// seed, Assign returns the same plan.
package engine

import (
	"math/rand/v2"
	"sort"

	"github.com/evanschultz/rota/internal/domain"
	"github.com/evanschultz/rota/internal/ledger"
)

// DefaultSeed seeds the generator when Options.Rand is nil.
const DefaultSeed uint64 = 42

// Options controls item ordering and randomness for one run.
type Options struct {
	// Weighted orders regular items by intensity, largest first.
	Weighted bool
	// Randomize shuffles regular items. Ignored when Weighted is set.
	Randomize bool
	// Rand drives the shuffle and the rotation fallback pick.
	Rand *rand.Rand
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// load tracks one worker's running totals.
type load struct {
	worker  string
	items   []domain.PlanItem
	sum     int
	count   int
	special string
}

// Assign builds the plan for day and records the day's special-duty picks in
// the ledger. available must be in roster order; that order breaks every tie.
// An empty catalog or worker list yields an empty plan and leaves the ledger
// untouched.
func Assign(catalog domain.Catalog, available []domain.Worker, day domain.Day, l *ledger.Ledger, opts Options) domain.AssignmentPlan {
	plan := domain.AssignmentPlan{Day: day}
	if catalog.Empty() || len(available) == 0 {
		return plan
	}
	if l == nil {
		l = ledger.New()
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(DefaultSeed)
	}

	loads := make([]*load, 0, len(available))
	for _, worker := range available {
		loads = append(loads, &load{worker: worker.Name})
	}

	// Regenerating a day replaces its earlier picks.
	l.ForgetDay(day)
	plan.UnassignedSpecials = rotateSpecials(catalog.Specials(), loads, day, l, rng)
	distributeRegular(orderRegular(catalog.Regular(), opts, rng), loads)

	for _, ld := range loads {
		if ld.count == 0 {
			continue
		}
		plan.Assignments = append(plan.Assignments, domain.WorkerAssignment{
			Worker:         ld.worker,
			Items:          ld.items,
			TotalIntensity: ld.sum,
			ItemCount:      ld.count,
			SpecialTask:    ld.special,
		})
	}
	return plan
}

// rotateSpecials assigns each special duty to one uncommitted worker and
// returns the duties nobody could take.
func rotateSpecials(specials []domain.WorkItem, loads []*load, day domain.Day, l *ledger.Ledger, rng *rand.Rand) []string {
	var unassigned []string
	for _, task := range specials {
		uncommitted := make([]*load, 0, len(loads))
		for _, ld := range loads {
			if ld.special == "" {
				uncommitted = append(uncommitted, ld)
			}
		}
		if len(uncommitted) == 0 {
			unassigned = append(unassigned, task.Name)
			continue
		}

		held := l.WorkersWhoHeldTaskExcluding(task.Name, day)
		candidates := make([]*load, 0, len(uncommitted))
		for _, ld := range uncommitted {
			if _, ok := held[ld.worker]; !ok {
				candidates = append(candidates, ld)
			}
		}

		var chosen *load
		if len(candidates) == 0 {
			// Everyone left already had this duty: relax the weekly rule.
			chosen = uncommitted[rng.IntN(len(uncommitted))]
		} else {
			bestCount := -1
			for _, ld := range candidates {
				count := l.SpecialDutyCountExcluding(ld.worker, day)
				if bestCount < 0 || count < bestCount {
					chosen = ld
					bestCount = count
				}
			}
		}

		chosen.special = task.Name
		chosen.items = append(chosen.items, domain.PlanItem{
			Name:      task.Name,
			Intensity: domain.SpecialDutyIntensity,
			Special:   true,
		})
		chosen.sum += domain.SpecialDutyIntensity
		chosen.count++
		l.Record(day, task.Name, chosen.worker)
	}
	return unassigned
}

// orderRegular applies the ordering policy. Weighted wins over Randomize.
func orderRegular(items []domain.WorkItem, opts Options, rng *rand.Rand) []domain.WorkItem {
	switch {
	case opts.Weighted:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Intensity > items[j].Intensity
		})
	case opts.Randomize:
		rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}
	return items
}

// distributeRegular hands each item to the worker with the smallest
// (sum, count), taking the earliest worker on ties.
func distributeRegular(items []domain.WorkItem, loads []*load) {
	for _, item := range items {
		target := loads[0]
		for _, ld := range loads[1:] {
			if ld.sum < target.sum || (ld.sum == target.sum && ld.count < target.count) {
				target = ld
			}
		}
		target.items = append(target.items, domain.PlanItem{
			Name:      item.Name,
			Intensity: item.Intensity,
		})
		target.sum += item.Intensity
		target.count++
	}
}
