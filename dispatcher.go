package main

import (
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"Peek/pkg/screen"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// ========================================
// Event filter & dispatch registry
// ========================================

// Listener receives every dispatched event its filter accepts.
type Listener func(screen.Event)

type listenerEntry struct {
	seq    uint64
	filter screen.Filter
	fn     Listener
}

// Dispatcher converts raw host events into typed events and fans them out to
// registered listeners. Mutation (subscribe/unsubscribe) is rare; dispatch
// runs once per host event and iterates lock-free, so the registry is a
// sync.Map keyed by subscription ID.
type Dispatcher struct {
	listeners sync.Map // id string -> *listenerEntry
	seq       uint64
	seqMu     sync.Mutex

	// debugLimit gates debug log lines for content-change floods. Events
	// themselves are never rate-limited or dropped.
	debugLimit *rate.Limiter
}

// NewDispatcher creates an empty registry. logPerSecond bounds how many
// dispatch debug lines per second reach the log.
func NewDispatcher(logPerSecond int) *Dispatcher {
	if logPerSecond <= 0 {
		logPerSecond = 5
	}
	return &Dispatcher{
		debugLimit: rate.NewLimiter(rate.Limit(logPerSecond), logPerSecond),
	}
}

// Subscription is the handle a Subscribe call returns. Cancel is idempotent.
type Subscription struct {
	d    *Dispatcher
	id   string
	once sync.Once
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string { return s.id }

// Cancel removes the listener from the registry. Safe to call any number of
// times, concurrently with dispatch.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.d.listeners.Delete(s.id)
		EventLog().Str("subscription", s.id).Msg("Listener unsubscribed")
	})
}

// Subscribe registers a listener with a filter. Empty filter sets act as
// wildcards. Safe to call concurrently with dispatch.
func (d *Dispatcher) Subscribe(filter screen.Filter, fn Listener) *Subscription {
	id := uuid.New().String()
	d.seqMu.Lock()
	d.seq++
	entry := &listenerEntry{seq: d.seq, filter: filter, fn: fn}
	d.seqMu.Unlock()
	d.listeners.Store(id, entry)
	EventLog().Str("subscription", id).Msg("Listener subscribed")
	return &Subscription{d: d, id: id}
}

// Dispatch invokes every listener whose filter matches the event, in the
// order they subscribed. A panic in one listener is caught and logged; it
// never prevents the remaining listeners from running and never propagates
// to the event source.
func (d *Dispatcher) Dispatch(ev screen.Event) {
	if ev.Kind == screen.EventContentChange && d.debugLimit.Allow() {
		LogDebug("event").
			Str("kind", string(ev.Kind)).
			Str("owner", ev.OwnerID).
			Msg("Dispatching event")
	}

	var matched []*listenerEntry
	d.listeners.Range(func(_, value any) bool {
		entry := value.(*listenerEntry)
		if entry.filter.Matches(ev) {
			matched = append(matched, entry)
		}
		return true
	})
	// sync.Map iterates in no particular order; subscription order is the
	// documented dispatch order.
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	for _, entry := range matched {
		invokeListener(entry, ev)
	}
}

func invokeListener(entry *listenerEntry, ev screen.Event) {
	defer func() {
		if r := recover(); r != nil {
			LogError("event").
				Interface("recovered", r).
				Str("eventId", ev.ID).
				Str("stack", string(debug.Stack())).
				Msg("Listener panicked")
		}
	}()
	entry.fn(ev)
}

// Clear drops every registered listener and returns how many were dropped.
// Called on disconnect and shutdown.
func (d *Dispatcher) Clear() int {
	count := 0
	d.listeners.Range(func(key, _ any) bool {
		d.listeners.Delete(key)
		count++
		return true
	})
	return count
}

// Count returns the number of registered listeners.
func (d *Dispatcher) Count() int {
	count := 0
	d.listeners.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// convertRaw maps one raw host event onto the typed event model. The kind
// mapping is total: unrecognized raw kinds become content changes, never
// dropped events. Known fields missing from the event itself are pulled
// from the opaque JSON extras payload.
func convertRaw(raw screen.RawEvent) screen.Event {
	ev := screen.Event{
		ID:        uuid.New().String(),
		Kind:      screen.KindForRaw(raw.Kind),
		OwnerID:   raw.OwnerID,
		Title:     raw.Title,
		Timestamp: raw.Timestamp,
		RawKind:   raw.Kind,
		ItemCount: raw.ItemCount,
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
	if raw.Extras != "" {
		if ev.OwnerID == "" {
			ev.OwnerID = gjson.Get(raw.Extras, "ownerId").String()
		}
		if ev.Title == "" {
			ev.Title = gjson.Get(raw.Extras, "title").String()
		}
		if ev.ItemCount == 0 {
			ev.ItemCount = int(gjson.Get(raw.Extras, "itemCount").Int())
		}
	}
	return ev
}

// HandleHostEvent is the entry point the host event source calls, strictly
// sequentially, for every raw event. Events arriving while disconnected are
// ignored; otherwise the event is converted, journaled and dispatched in
// arrival order, with no buffering or reordering.
func (a *App) HandleHostEvent(raw screen.RawEvent) {
	if a.session() == nil {
		return
	}
	ev := convertRaw(raw)
	if a.journal != nil {
		a.journal.Record(ev)
	}
	a.dispatcher.Dispatch(ev)
}

// Subscribe registers a listener on the agent's dispatcher.
func (a *App) Subscribe(filter screen.Filter, fn Listener) *Subscription {
	return a.dispatcher.Subscribe(filter, fn)
}
