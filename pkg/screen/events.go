package screen

import "errors"

// ========================================
// Typed event model
// ========================================

// EventKind is one of the two logical event kinds every raw host event maps
// onto.
type EventKind string

const (
	EventWindowChange  EventKind = "window_change"
	EventContentChange EventKind = "content_change"
)

// Raw host event kind codes, as delivered by the host event source.
const (
	RawViewClicked              int32 = 0x00000001
	RawViewLongClicked          int32 = 0x00000002
	RawViewFocused              int32 = 0x00000008
	RawViewTextChanged          int32 = 0x00000010
	RawWindowStateChanged       int32 = 0x00000020
	RawNotificationStateChanged int32 = 0x00000040
	RawViewScrolled             int32 = 0x00001000
	RawWindowContentChanged     int32 = 0x00000800
	RawWindowsChanged           int32 = 0x00400000
)

// kindByRaw is the fixed, total mapping from raw kind codes to logical
// kinds. Anything not listed falls through KindForRaw's default arm: an
// unrecognized raw kind is still an event, never a dropped one.
var kindByRaw = map[int32]EventKind{
	RawWindowStateChanged:       EventWindowChange,
	RawWindowsChanged:           EventWindowChange,
	RawViewClicked:              EventContentChange,
	RawViewLongClicked:          EventContentChange,
	RawViewFocused:              EventContentChange,
	RawViewTextChanged:          EventContentChange,
	RawViewScrolled:             EventContentChange,
	RawWindowContentChanged:     EventContentChange,
	RawNotificationStateChanged: EventContentChange,
}

// KindForRaw maps a raw kind code to its logical kind, defaulting to
// EventContentChange for unmapped codes.
func KindForRaw(raw int32) EventKind {
	if kind, ok := kindByRaw[raw]; ok {
		return kind
	}
	return EventContentChange
}

// RawEvent is one event exactly as the host event source delivers it,
// before conversion. Extras is an opaque JSON payload whose shape varies by
// host; known fields are extracted with gjson paths in the dispatcher.
type RawEvent struct {
	Kind      int32  `json:"kind"`
	OwnerID   string `json:"ownerId,omitempty"`
	Title     string `json:"title,omitempty"`
	ItemCount int    `json:"itemCount,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"` // unix millis; 0 = stamp on receipt
	Extras    string `json:"extras,omitempty"`
}

// Event is the small typed event handed to listeners.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	OwnerID   string    `json:"ownerId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Timestamp int64     `json:"timestamp"`
	RawKind   int32     `json:"rawKind"`
	ItemCount int       `json:"itemCount,omitempty"`
}

// StoredEvent is one journaled event row, as persisted and as surfaced to
// journal queries.
type StoredEvent struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	RawKind   int32     `json:"rawKind"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title,omitempty"`
	ItemCount int       `json:"itemCount,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Filter selects which events a listener receives. An empty Kinds or Owners
// set is a wildcard for that dimension; non-empty sets match exactly.
type Filter struct {
	Kinds  []EventKind `json:"kinds,omitempty"`
	Owners []string    `json:"owners,omitempty"`
}

// Matches reports whether the filter accepts the event. An event with no
// owner passes a wildcard owner set but never a non-empty one.
func (f Filter) Matches(ev Event) bool {
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if k == ev.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Owners) > 0 {
		found := false
		for _, o := range f.Owners {
			if o != "" && o == ev.OwnerID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ========================================
// Shared outcome taxonomy and boundary errors
// ========================================

// Outcome classifies the result of one interaction operation.
type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeElementNotFound     Outcome = "element_not_found"
	OutcomeActionFailed        Outcome = "action_failed"
	OutcomeServiceNotConnected Outcome = "service_not_connected"
	OutcomeError               Outcome = "error"
)

// ActionResult is the value every interaction operation returns. Expected
// conditions are variants, not errors; only host-level faults populate
// OutcomeError.
type ActionResult struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

func Success() ActionResult        { return ActionResult{Outcome: OutcomeSuccess} }
func NotFound() ActionResult       { return ActionResult{Outcome: OutcomeElementNotFound} }
func NotConnected() ActionResult   { return ActionResult{Outcome: OutcomeServiceNotConnected} }
func Failed(reason string) ActionResult {
	return ActionResult{Outcome: OutcomeActionFailed, Reason: reason}
}
func Errored(msg string) ActionResult { return ActionResult{Outcome: OutcomeError, Reason: msg} }

// GlobalAction is one of the fixed, parameterless system-level actions the
// host dispatcher accepts.
type GlobalAction string

const (
	GlobalBack          GlobalAction = "back"
	GlobalHome          GlobalAction = "home"
	GlobalRecents       GlobalAction = "recents"
	GlobalNotifications GlobalAction = "notifications"
)

// Boundary errors shared between the agent core and its callers.
var (
	// ErrNotConnected reports that no live host connection exists.
	ErrNotConnected = errors.New("service not connected")
	// ErrNoActiveWindow reports that the host has no current root node.
	// Frequent and expected, e.g. between app transitions.
	ErrNoActiveWindow = errors.New("no active window")
	// ErrStaleNode is the fault class host adapters raise when the screen
	// changed underneath a live handle mid-walk.
	ErrStaleNode = errors.New("stale node handle")
)
