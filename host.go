package main

import "Peek/pkg/screen"

// ========================================
// Host boundary
// The platform bridge owns the node tree; this package only borrows handles.
// ========================================

// NodeAction is one primitive gesture the host can perform on a node.
type NodeAction int

const (
	ActionClick NodeAction = iota
	ActionLongClick
	ActionFocus
	ActionScrollForward
	ActionScrollBackward
)

func (a NodeAction) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionLongClick:
		return "long-click"
	case ActionFocus:
		return "focus"
	case ActionScrollForward:
		return "scroll-forward"
	case ActionScrollBackward:
		return "scroll-backward"
	}
	return "unknown"
}

// NodeHandle is a live, host-owned reference to one on-screen element. A
// handle is valid only until released or until the screen changes underneath
// it. The contract every caller in this package honors: each handle obtained
// (from RootNode or Child) is released exactly once, on every exit path, and
// never retained past the call that produced it.
type NodeHandle interface {
	// Props returns copied scalar properties. Cheap; never faults.
	Props() screen.Props
	// Flags returns copied boolean state bits.
	Flags() screen.Flags
	// Bounds returns the on-screen rect.
	Bounds() screen.Rect

	// ChildCount returns the number of children currently reported.
	ChildCount() int
	// Child obtains a handle on the i-th child. The caller owns the returned
	// handle and must release it. Returns an error wrapping
	// screen.ErrStaleNode when the tree changed underneath; may return
	// (nil, nil) for a child the host can no longer materialize.
	Child(i int) (NodeHandle, error)

	// Perform executes one primitive action; the bool is the host's
	// acceptance, not a success guarantee.
	Perform(a NodeAction) bool
	// SetText replaces the node's text content.
	SetText(text string) bool

	// Release returns the handle to the host. Must be called exactly once.
	Release()
}

// Host is the platform bridge the agent drives: a node source, an action
// dispatcher and (via App.HandleHostEvent) an event source.
type Host interface {
	// RootNode obtains a handle on the root of the active window, or
	// (nil, nil) when no window is active. The caller owns the handle.
	RootNode() (NodeHandle, error)
	// ActiveWindow describes the window RootNode would capture.
	ActiveWindow() (screen.WindowKind, string)
	// PerformGlobalAction dispatches one fixed system-level action.
	PerformGlobalAction(action screen.GlobalAction) bool
	// LaunchPackage starts the named package; false when unavailable.
	LaunchPackage(pkg string) bool
}
