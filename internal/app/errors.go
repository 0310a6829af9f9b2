package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyCatalog       = errors.New("catalog has no work items")
	ErrNoAvailableWorkers = errors.New("no available workers")
	ErrNoPlan             = errors.New("no plan generated for day")
)
