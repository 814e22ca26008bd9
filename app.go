package main

import (
	"sync/atomic"

	"Peek/pkg/screen"
)

// App wires the host connection, event dispatch, and the event journal
// together and exposes the operations the agent surface calls.
type App struct {
	// conn holds the active host session, or nil while disconnected.
	// Every operation reads it exactly once.
	conn atomic.Pointer[hostSession]

	dispatcher *Dispatcher
	journal    *Journal

	version string
}

// NewApp creates an App with an event dispatcher and no host attached.
// The journal is optional and set up separately by the caller.
func NewApp(version string, dispatchLogPerSecond int) *App {
	return &App{
		dispatcher: NewDispatcher(dispatchLogPerSecond),
		version:    version,
	}
}

// SetJournal attaches an event journal. Events received after this call
// are recorded before dispatch.
func (a *App) SetJournal(j *Journal) {
	a.journal = j
}

// Version returns the build version.
func (a *App) Version() string {
	return a.version
}

// RecentEvents returns up to limit of the most recently journaled events,
// newest first. Without a journal it returns an empty slice.
func (a *App) RecentEvents(limit int) ([]screen.StoredEvent, error) {
	if a.journal == nil {
		return []screen.StoredEvent{}, nil
	}
	return a.journal.Recent(limit)
}

// Shutdown detaches the host, drops all listeners, and closes the journal.
func (a *App) Shutdown() {
	a.Disconnect()
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			LogError("app").Err(err).Msg("Failed to close event journal")
		}
	}
}
