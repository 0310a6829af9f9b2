package tui

import (
	"github.com/atotto/clipboard"

	"github.com/evanschultz/rota/internal/domain"
)

type Option func(*Model)

// WithDay selects the day shown at launch.
func WithDay(day domain.Day) Option {
	return func(m *Model) {
		if day.Valid() {
			m.day = day
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copy = write
		}
	}
}

// WithAutoAssign generates the launch day's plan as soon as the model starts.
func WithAutoAssign(enabled bool) Option {
	return func(m *Model) {
		m.autoAssign = enabled
	}
}

// systemClipboard writes text to the OS clipboard.
func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
