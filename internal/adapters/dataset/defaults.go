package dataset

import "github.com/evanschultz/rota/internal/domain"

var defaultEngineers = []string{"Sergio", "Marvin", "Christopher", "Esteban"}

var defaultAccounts = []struct {
	name      string
	intensity int
}{
	{"CMF", 2}, {"BGR", 1}, {"ITAU", 5}, {"Pich Ecuador", 5}, {"Pich Peru", 3},
	{"Arauco", 5}, {"CCA", 4}, {"Cermaq", 2}, {"Claro Peru", 4}, {"CMA (HNN)", 3},
	{"CMP", 3}, {"DIGICEL", 3}, {"Forum", 4}, {"INS", 4}, {"Lima Exp", 1},
	{"Philips", 2}, {"Produbanco", 2}, {"Qualitas", 1}, {"Recipharm", 3}, {"RENIEC", 3},
	{"Registro Civil", 4}, {"Suzano", 4}, {"Chedraui", 2}, {"Walmart", 4},
	{"EoS Report", 2}, {"DCOSS Monitoring", 2},
}

// Defaults returns the built-in sample dataset: four afternoon-shift
// engineers available every day but Sunday, and the standard account list.
func Defaults() domain.Dataset {
	return domain.Dataset{
		Workers:      defaultWorkers(),
		Availability: defaultAvailability(),
		Items:        defaultItems(),
	}
}

func defaultWorkers() []domain.Worker {
	out := make([]domain.Worker, 0, len(defaultEngineers))
	for idx, name := range defaultEngineers {
		out = append(out, domain.Worker{ID: idx + 1, Name: name, Shift: "Afternoon", Active: true})
	}
	return out
}

func defaultAvailability() []domain.Availability {
	out := make([]domain.Availability, 0, len(defaultEngineers)*7)
	for _, day := range domain.Week() {
		for idx := range defaultEngineers {
			out = append(out, domain.Availability{WorkerID: idx + 1, Day: day, Available: day != domain.Sunday})
		}
	}
	return out
}

func defaultItems() []domain.WorkItem {
	out := make([]domain.WorkItem, 0, len(defaultAccounts))
	for _, account := range defaultAccounts {
		out = append(out, domain.WorkItem{Name: account.name, Intensity: account.intensity})
	}
	return out
}
