package domain

import "errors"

var (
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidIntensity = errors.New("invalid intensity")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidWorkerID  = errors.New("invalid worker id")
	ErrDuplicateItem    = errors.New("duplicate work item")
	ErrDuplicateWorker  = errors.New("duplicate worker")
	ErrUnknownWorker    = errors.New("unknown worker")
)
