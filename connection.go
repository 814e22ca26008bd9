package main

// ========================================
// Connection state
// ========================================

// hostSession is the single shared "live instance" reference. It exists so
// the connection state is one atomically-swapped pointer: readers take a
// local copy once per operation and act on that copy, never check-then-act
// on the shared slot.
type hostSession struct {
	host Host
}

// Connect installs the host as the live instance. The agent is connected
// until Disconnect; connecting over an existing session replaces it.
func (a *App) Connect(h Host) {
	prev := a.conn.Swap(&hostSession{host: h})
	if prev != nil {
		HostLog().Msg("Replacing existing host session")
	}
	HostLog().Msg("Host connected")
}

// Disconnect clears the live instance and the listener registry. Both host
// shutdown signals funnel here; only the swap that actually cleared a
// session does the teardown work, so the call is safe to repeat.
func (a *App) Disconnect() {
	prev := a.conn.Swap(nil)
	if prev == nil {
		return
	}
	cleared := a.dispatcher.Clear()
	HostLog().Int("listenersCleared", cleared).Msg("Host disconnected")
}

// session returns the live session, or nil when disconnected. Every public
// operation reads this exactly once at entry; a disconnect racing the rest
// of the operation surfaces as a stale-handle fault from the host, not as a
// liveness error.
func (a *App) session() *hostSession {
	return a.conn.Load()
}

// IsConnected reports current liveness.
func (a *App) IsConnected() bool {
	return a.conn.Load() != nil
}
