package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/domain"
)

type fakeService struct {
	plans     map[domain.Day]domain.AssignmentPlan
	history   []domain.RotationRecord
	inputs    []app.AssignInput
	resets    int
	assignErr error
	matrixErr error
}

func newFakeService() *fakeService {
	return &fakeService{plans: map[domain.Day]domain.AssignmentPlan{}}
}

func (f *fakeService) AssignDay(_ context.Context, in app.AssignInput) (domain.AssignmentPlan, error) {
	f.inputs = append(f.inputs, in)
	if f.assignErr != nil {
		return domain.AssignmentPlan{}, f.assignErr
	}
	plan := domain.AssignmentPlan{
		Day: in.Day,
		Assignments: []domain.WorkerAssignment{{
			Worker:         "Sergio",
			Items:          []domain.PlanItem{{Name: "EoS Report", Intensity: 2, Special: true}, {Name: "CMF", Intensity: 2}},
			TotalIntensity: 4,
			ItemCount:      2,
			SpecialTask:    "EoS Report",
		}},
	}
	f.plans[in.Day] = plan
	f.history = append(f.history, domain.RotationRecord{Day: in.Day, Task: "EoS Report", Worker: "Sergio"})
	return plan, nil
}

func (f *fakeService) LastPlan(day domain.Day) (domain.AssignmentPlan, error) {
	plan, ok := f.plans[day]
	if !ok {
		return domain.AssignmentPlan{}, app.ErrNoPlan
	}
	return plan, nil
}

func (f *fakeService) History() []domain.RotationRecord {
	return append([]domain.RotationRecord(nil), f.history...)
}

func (f *fakeService) ResetWeek() {
	f.resets++
	f.history = nil
	f.plans = map[domain.Day]domain.AssignmentPlan{}
}

func (f *fakeService) AvailabilityMatrix(context.Context) ([]app.AvailabilityRow, error) {
	if f.matrixErr != nil {
		return nil, f.matrixErr
	}
	days := make([]domain.AvailabilityState, 7)
	for idx := range days {
		days[idx] = domain.AvailabilityYes
	}
	return []app.AvailabilityRow{{Worker: "Sergio", Active: true, Days: days}}, nil
}

func (f *fakeService) SpecialTasks() []string {
	return []string{"EoS Report", "DCOSS Monitoring"}
}

func (f *fakeService) DefaultAssignInput(day domain.Day) app.AssignInput {
	return app.AssignInput{Day: day, Weighted: true}
}

func readyModel(t *testing.T, svc *fakeService, opts ...Option) Model {
	t.Helper()
	m := NewModel(svc, opts...)
	m = applyCmd(t, m, m.Init())
	return applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestModelAssignsSelectedDay(t *testing.T) {
	svc := newFakeService()
	m := readyModel(t, svc)
	if m.status != "ready" || len(m.matrix) != 1 {
		t.Fatalf("expected loaded availability, status=%q rows=%d", m.status, len(m.matrix))
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.day != domain.Tuesday {
		t.Fatalf("expected tuesday, got %s", m.day)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.inputs) != 1 || svc.inputs[0].Day != domain.Tuesday || !svc.inputs[0].Weighted {
		t.Fatalf("unexpected assign inputs %#v", svc.inputs)
	}
	if _, ok := m.plans[domain.Tuesday]; !ok {
		t.Fatal("expected tuesday plan stored in model")
	}
	if len(m.history) != 1 {
		t.Fatalf("expected history refresh, got %#v", m.history)
	}
	out := m.render()
	for _, want := range []string{"Sergio", "CMF", "Special duty history"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestModelTogglesOrdering(t *testing.T) {
	svc := newFakeService()
	m := readyModel(t, svc)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'w', Text: "w"})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	if m.input.Weighted || !m.input.Randomize {
		t.Fatalf("unexpected toggles %#v", m.input)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'a', Text: "a"})
	if len(svc.inputs) != 1 || svc.inputs[0].Weighted || !svc.inputs[0].Randomize {
		t.Fatalf("expected toggled flags in assign input, got %#v", svc.inputs)
	}
}

func TestModelResetWeek(t *testing.T) {
	svc := newFakeService()
	m := readyModel(t, svc, WithDay(domain.Friday))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'R', Text: "R"})
	if svc.resets != 1 {
		t.Fatalf("expected one reset, got %d", svc.resets)
	}
	if len(m.plans) != 0 || len(m.history) != 0 || m.status != "week reset" {
		t.Fatalf("expected cleared model, plans=%d history=%d status=%q", len(m.plans), len(m.history), m.status)
	}
}

func TestModelCopyPlan(t *testing.T) {
	svc := newFakeService()
	var copied string
	m := readyModel(t, svc, WithClipboard(func(text string) error {
		copied = text
		return nil
	}))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if copied != "" || !strings.Contains(m.status, "nothing to copy") {
		t.Fatalf("expected no copy before assignment, status=%q", m.status)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if !strings.Contains(copied, "Monday assignments") || m.status != "plan copied to clipboard" {
		t.Fatalf("unexpected copy %q status %q", copied, m.status)
	}

	m.copy = func(string) error { return errors.New("no display") }
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if !strings.Contains(m.status, "copy failed") {
		t.Fatalf("expected copy failure status, got %q", m.status)
	}
}

func TestModelNoWorkersKeepsPlannerUsable(t *testing.T) {
	svc := newFakeService()
	svc.assignErr = app.ErrNoAvailableWorkers
	m := readyModel(t, svc, WithDay(domain.Sunday))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("expected no fatal error, got %v", m.err)
	}
	if !strings.Contains(m.status, "no available workers") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if !strings.Contains(m.render(), "No plan for Sunday") {
		t.Fatalf("expected empty day prompt:\n%s", m.render())
	}
}

func TestModelPanelsAndErrors(t *testing.T) {
	svc := newFakeService()
	m := readyModel(t, svc)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'v', Text: "v"})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'p', Text: "p"})
	out := m.render()
	if !strings.Contains(out, "Availability") || !strings.Contains(out, "Rotation") {
		t.Fatalf("expected availability and policy panels:\n%s", out)
	}

	svc.matrixErr = errors.New("db locked")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'r', Text: "r"})
	if !strings.HasPrefix(m.render(), "error: db locked") {
		t.Fatalf("expected error view, got %q", m.render())
	}
	svc.matrixErr = nil
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'r', Text: "r"})
	if m.err != nil {
		t.Fatalf("expected retry to clear error, got %v", m.err)
	}
}

func TestModelQuitKey(t *testing.T) {
	m := NewModel(newFakeService())
	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if updated == nil {
		t.Fatal("expected model return value")
	}
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
	if v := m.View(); v.Content == nil || !v.AltScreen {
		t.Fatal("expected alt-screen loading view")
	}
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}
