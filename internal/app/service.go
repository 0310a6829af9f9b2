package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/evanschultz/rota/internal/domain"
	"github.com/evanschultz/rota/internal/engine"
	"github.com/evanschultz/rota/internal/ledger"
)

// DefaultSpecialTasks lists the rotating duties used when none are configured.
var DefaultSpecialTasks = []string{"EoS Report", "DCOSS Monitoring"}

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	SpecialTasks []string
	Weighted     bool
	Randomize    bool
	ShuffleSeed  uint64
	Logger       Logger
}

// IDGenerator returns unique identifiers for generated plans.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service runs daily assignments against one in-memory weekly ledger.
type Service struct {
	repo         Repository
	idGen        IDGenerator
	clock        Clock
	logger       Logger
	specialTasks []string
	defaults     AssignInput
	seed         uint64

	mu     sync.Mutex
	ledger *ledger.Ledger
	plans  map[domain.Day]domain.AssignmentPlan
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	specials := sanitizeSpecialTasks(cfg.SpecialTasks)
	if len(specials) == 0 {
		specials = append([]string(nil), DefaultSpecialTasks...)
	}
	seed := cfg.ShuffleSeed
	if seed == 0 {
		seed = engine.DefaultSeed
	}

	return &Service{
		repo:         repo,
		idGen:        idGen,
		clock:        clock,
		logger:       logger,
		specialTasks: specials,
		defaults: AssignInput{
			Weighted:  cfg.Weighted,
			Randomize: cfg.Randomize,
		},
		seed:   seed,
		ledger: ledger.New(),
		plans:  map[domain.Day]domain.AssignmentPlan{},
	}
}

// SpecialTasks returns the configured rotating duty names.
func (s *Service) SpecialTasks() []string {
	return append([]string(nil), s.specialTasks...)
}

// LoadCatalog reads work items and flags the configured special duties.
func (s *Service) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	items, err := s.repo.ListWorkItems(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list work items: %w", err)
	}
	return domain.NewCatalog(domain.MarkSpecial(items, s.specialTasks))
}

// LoadRoster reads workers and their availability.
func (s *Service) LoadRoster(ctx context.Context) (domain.Roster, error) {
	workers, err := s.repo.ListWorkers(ctx)
	if err != nil {
		return domain.Roster{}, fmt.Errorf("list workers: %w", err)
	}
	entries, err := s.repo.ListAvailability(ctx)
	if err != nil {
		return domain.Roster{}, fmt.Errorf("list availability: %w", err)
	}
	return domain.NewRoster(workers, entries)
}

// AvailableWorkers returns the workers available on day, in roster order.
func (s *Service) AvailableWorkers(ctx context.Context, day domain.Day) ([]domain.Worker, error) {
	roster, err := s.LoadRoster(ctx)
	if err != nil {
		return nil, err
	}
	return roster.AvailableOn(day), nil
}

// AssignInput holds input values for assign operations.
type AssignInput struct {
	Day       domain.Day
	Weighted  bool
	Randomize bool
}

// DefaultAssignInput returns the configured ordering flags for day.
func (s *Service) DefaultAssignInput(day domain.Day) AssignInput {
	in := s.defaults
	in.Day = day
	return in
}

// AssignDay generates the plan for one day and records its special duties in
// the week's ledger. Empty inputs return ErrEmptyCatalog or
// ErrNoAvailableWorkers and leave the ledger untouched.
func (s *Service) AssignDay(ctx context.Context, in AssignInput) (domain.AssignmentPlan, error) {
	if !in.Day.Valid() {
		return domain.AssignmentPlan{}, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(in.Day))
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return domain.AssignmentPlan{}, err
	}
	roster, err := s.LoadRoster(ctx)
	if err != nil {
		return domain.AssignmentPlan{}, err
	}
	available := roster.AvailableOn(in.Day)
	if catalog.Empty() {
		return domain.AssignmentPlan{}, ErrEmptyCatalog
	}
	if len(available) == 0 {
		return domain.AssignmentPlan{}, fmt.Errorf("%w on %s", ErrNoAvailableWorkers, in.Day.Title())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan := engine.Assign(catalog, available, in.Day, s.ledger, engine.Options{
		Weighted:  in.Weighted,
		Randomize: in.Randomize,
		Rand:      engine.NewRand(s.seed),
	})
	plan.RunID = s.idGen()
	plan.GeneratedAt = s.clock().UTC()
	s.plans[in.Day] = plan

	for _, pick := range plan.SpecialAssignments() {
		s.logger.Debug("special duty assigned", "day", pick.Day, "task", pick.Task, "worker", pick.Worker)
	}
	if len(plan.UnassignedSpecials) > 0 {
		s.logger.Warn("special duties left unassigned", "day", in.Day, "tasks", strings.Join(plan.UnassignedSpecials, ", "))
	}
	s.logger.Info("assignment plan generated",
		"day", in.Day,
		"run_id", plan.RunID,
		"workers", len(plan.Assignments),
		"items", catalog.Len(),
		"weighted", in.Weighted,
		"randomize", in.Randomize,
	)
	return plan, nil
}

// LastPlan returns the most recent plan generated for day this week.
func (s *Service) LastPlan(day domain.Day) (domain.AssignmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[day]
	if !ok {
		return domain.AssignmentPlan{}, fmt.Errorf("%w: %s", ErrNoPlan, day.Title())
	}
	return plan, nil
}

// History returns the week's rotation records ordered by day.
func (s *Service) History() []domain.RotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.History()
}

// DayAssignments returns the special-duty records for one day.
func (s *Service) DayAssignments(day domain.Day) []domain.RotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.RecordsForDay(day)
}

// WorkerTallies returns each worker's special-duty counts for the week.
func (s *Service) WorkerTallies() []ledger.WorkerTally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TaskCounts()
}

// ResetWeek clears the rotation ledger and cached plans.
func (s *Service) ResetWeek() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := s.ledger.Len()
	s.ledger.Reset()
	clear(s.plans)
	s.logger.Info("rotation week reset", "cleared_records", cleared)
}

// AvailabilityRow is one worker's line in the availability matrix.
type AvailabilityRow struct {
	Worker string                     `json:"worker"`
	Active bool                       `json:"active"`
	Days   []domain.AvailabilityState `json:"days"`
}

// AvailabilityMatrix returns every worker's availability for the week.
func (s *Service) AvailabilityMatrix(ctx context.Context) ([]AvailabilityRow, error) {
	roster, err := s.LoadRoster(ctx)
	if err != nil {
		return nil, err
	}
	workers := roster.Workers()
	rows := make([]AvailabilityRow, 0, len(workers))
	for _, worker := range workers {
		row := AvailabilityRow{Worker: worker.Name, Active: worker.Active, Days: make([]domain.AvailabilityState, 0, 7)}
		for _, day := range domain.Week() {
			row.Days = append(row.Days, roster.State(worker.ID, day))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SetWorkerActive marks a worker as eligible or ineligible for assignment.
func (s *Service) SetWorkerActive(ctx context.Context, workerID int, active bool) error {
	if err := s.repo.SetWorkerActive(ctx, workerID, active); err != nil {
		return fmt.Errorf("set worker %d active: %w", workerID, err)
	}
	s.logger.Info("worker activity updated", "worker_id", workerID, "active", active)
	return nil
}

// ImportDataset validates and stores a full replacement dataset.
func (s *Service) ImportDataset(ctx context.Context, dataset domain.Dataset) error {
	if err := dataset.Validate(); err != nil {
		return fmt.Errorf("validate dataset: %w", err)
	}
	if err := s.repo.ReplaceDataset(ctx, dataset); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	s.logger.Info("dataset imported", "workers", len(dataset.Workers), "items", len(dataset.Items), "availability", len(dataset.Availability))
	return nil
}

// ExportDataset reads the stored dataset back.
func (s *Service) ExportDataset(ctx context.Context) (domain.Dataset, error) {
	items, err := s.repo.ListWorkItems(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("list work items: %w", err)
	}
	workers, err := s.repo.ListWorkers(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("list workers: %w", err)
	}
	entries, err := s.repo.ListAvailability(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("list availability: %w", err)
	}
	return domain.Dataset{Workers: workers, Availability: entries, Items: items}, nil
}

// EnsureSeeded stores fallback when the repository holds no data yet.
func (s *Service) EnsureSeeded(ctx context.Context, fallback domain.Dataset) (bool, error) {
	current, err := s.ExportDataset(ctx)
	if err != nil {
		return false, err
	}
	if !current.Empty() {
		return false, nil
	}
	if err := s.ImportDataset(ctx, fallback); err != nil {
		return false, err
	}
	return true, nil
}

// sanitizeSpecialTasks trims names and drops blanks and duplicates.
func sanitizeSpecialTasks(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, raw := range in {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
