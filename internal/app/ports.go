package app

import (
	"context"

	"github.com/evanschultz/rota/internal/domain"
)

// Repository supplies the catalog and roster inputs.
type Repository interface {
	ListWorkItems(context.Context) ([]domain.WorkItem, error)
	ListWorkers(context.Context) ([]domain.Worker, error)
	ListAvailability(context.Context) ([]domain.Availability, error)
	SetWorkerActive(context.Context, int, bool) error
	ReplaceDataset(context.Context, domain.Dataset) error
}

// Logger receives structured service events as key/value pairs.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
}

// nopLogger discards all events.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
