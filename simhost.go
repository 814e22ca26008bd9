package main

import (
	"fmt"
	"sync"

	"Peek/pkg/screen"
)

// ========================================
// SimHost - in-process host for demos and tests
// ========================================

// SimNodeSpec describes one node of a simulated tree and accumulates the
// actions performed against it.
type SimNodeSpec struct {
	Props    screen.Props
	Flags    screen.Flags
	Bounds   screen.Rect
	Children []*SimNodeSpec

	Clicks      int
	LongClicks  int
	Focuses     int
	ScrollsFwd  int
	ScrollsBack int
	SetTexts    []string
}

// SimHost implements Host against an in-memory tree. It keeps strict
// handle accounting so tests can verify that every acquired handle is
// released exactly once.
type SimHost struct {
	mu sync.Mutex

	Root   *SimNodeSpec
	Window screen.WindowKind
	Owner  string

	// RejectActions makes every Perform/SetText/global action report
	// non-acceptance.
	RejectActions bool
	// Stale makes every Child call fail as if the tree changed.
	Stale bool

	acquired       int
	released       int
	doubleReleased int

	globalActions []screen.GlobalAction
	launched      []string
}

// NewSimHost creates a host serving the given tree as an application window.
func NewSimHost(root *SimNodeSpec, owner string) *SimHost {
	return &SimHost{
		Root:   root,
		Window: screen.WindowApplication,
		Owner:  owner,
	}
}

func (h *SimHost) acquire(spec *SimNodeSpec) *SimNode {
	h.mu.Lock()
	h.acquired++
	h.mu.Unlock()
	return &SimNode{host: h, spec: spec}
}

// RootNode implements Host.
func (h *SimHost) RootNode() (NodeHandle, error) {
	h.mu.Lock()
	root := h.Root
	h.mu.Unlock()
	if root == nil {
		return nil, nil
	}
	return h.acquire(root), nil
}

// ActiveWindow implements Host.
func (h *SimHost) ActiveWindow() (screen.WindowKind, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Root == nil {
		return screen.WindowUnknown, ""
	}
	return h.Window, h.Owner
}

// PerformGlobalAction implements Host.
func (h *SimHost) PerformGlobalAction(action screen.GlobalAction) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.RejectActions {
		return false
	}
	h.globalActions = append(h.globalActions, action)
	return true
}

// LaunchPackage implements Host.
func (h *SimHost) LaunchPackage(pkg string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.RejectActions {
		return false
	}
	h.launched = append(h.launched, pkg)
	return true
}

// ClearWindow simulates all windows going away.
func (h *SimHost) ClearWindow() {
	h.mu.Lock()
	h.Root = nil
	h.mu.Unlock()
}

// Acquired returns how many handles were handed out.
func (h *SimHost) Acquired() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acquired
}

// Released returns how many handles were released.
func (h *SimHost) Released() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// DoubleReleased returns how many handles were released more than once.
func (h *SimHost) DoubleReleased() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doubleReleased
}

// Outstanding returns acquired minus released.
func (h *SimHost) Outstanding() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acquired - h.released
}

// GlobalActions returns the accepted global actions in order.
func (h *SimHost) GlobalActions() []screen.GlobalAction {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]screen.GlobalAction, len(h.globalActions))
	copy(out, h.globalActions)
	return out
}

// Launched returns the accepted launch requests in order.
func (h *SimHost) Launched() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.launched))
	copy(out, h.launched)
	return out
}

// ========================================
// SimNode
// ========================================

// SimNode is one handed-out handle onto a SimNodeSpec.
type SimNode struct {
	host     *SimHost
	spec     *SimNodeSpec
	released bool
}

// Props implements NodeHandle.
func (n *SimNode) Props() screen.Props { return n.spec.Props }

// Flags implements NodeHandle.
func (n *SimNode) Flags() screen.Flags { return n.spec.Flags }

// Bounds implements NodeHandle.
func (n *SimNode) Bounds() screen.Rect { return n.spec.Bounds }

// ChildCount implements NodeHandle.
func (n *SimNode) ChildCount() int { return len(n.spec.Children) }

// Child implements NodeHandle.
func (n *SimNode) Child(i int) (NodeHandle, error) {
	n.host.mu.Lock()
	stale := n.host.Stale
	n.host.mu.Unlock()
	if stale {
		return nil, fmt.Errorf("child %d: %w", i, screen.ErrStaleNode)
	}
	if i < 0 || i >= len(n.spec.Children) {
		return nil, fmt.Errorf("child %d: index out of range", i)
	}
	return n.host.acquire(n.spec.Children[i]), nil
}

// Perform implements NodeHandle.
func (n *SimNode) Perform(a NodeAction) bool {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	if n.host.RejectActions {
		return false
	}
	switch a {
	case ActionClick:
		n.spec.Clicks++
	case ActionLongClick:
		n.spec.LongClicks++
	case ActionFocus:
		n.spec.Focuses++
	case ActionScrollForward:
		n.spec.ScrollsFwd++
	case ActionScrollBackward:
		n.spec.ScrollsBack++
	}
	return true
}

// SetText implements NodeHandle.
func (n *SimNode) SetText(text string) bool {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	if n.host.RejectActions {
		return false
	}
	n.spec.SetTexts = append(n.spec.SetTexts, text)
	n.spec.Props.Text = text
	return true
}

// Release implements NodeHandle.
func (n *SimNode) Release() {
	n.host.mu.Lock()
	defer n.host.mu.Unlock()
	if n.released {
		n.host.doubleReleased++
		return
	}
	n.released = true
	n.host.released++
}

// ========================================
// Demo tree
// ========================================

// DemoTree builds the login form tree the -sim mode serves.
func DemoTree() *SimNodeSpec {
	return &SimNodeSpec{
		Props:  screen.Props{Class: "android.widget.FrameLayout", ResourceID: "com.example.demo:id/root"},
		Flags:  screen.Flags{Enabled: true},
		Bounds: screen.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920},
		Children: []*SimNodeSpec{
			{
				Props:  screen.Props{Text: "Welcome back", Class: "android.widget.TextView", ResourceID: "com.example.demo:id/title"},
				Flags:  screen.Flags{Enabled: true},
				Bounds: screen.Rect{Left: 40, Top: 120, Right: 1040, Bottom: 220},
			},
			{
				Props:  screen.Props{Description: "Username field", Class: "android.widget.EditText", ResourceID: "com.example.demo:id/username"},
				Flags:  screen.Flags{Enabled: true, Editable: true, Focusable: true, Clickable: true},
				Bounds: screen.Rect{Left: 40, Top: 300, Right: 1040, Bottom: 420},
			},
			{
				Props:  screen.Props{Description: "Password field", Class: "android.widget.EditText", ResourceID: "com.example.demo:id/password"},
				Flags:  screen.Flags{Enabled: true, Editable: true, Focusable: true, Clickable: true, Sensitive: true},
				Bounds: screen.Rect{Left: 40, Top: 460, Right: 1040, Bottom: 580},
			},
			{
				Props:  screen.Props{Text: "Sign in", Class: "android.widget.Button", ResourceID: "com.example.demo:id/submit"},
				Flags:  screen.Flags{Enabled: true, Clickable: true, Focusable: true},
				Bounds: screen.Rect{Left: 40, Top: 660, Right: 1040, Bottom: 780},
			},
			{
				Props:  screen.Props{Class: "androidx.recyclerview.widget.RecyclerView", ResourceID: "com.example.demo:id/recent"},
				Flags:  screen.Flags{Enabled: true, Scrollable: true},
				Bounds: screen.Rect{Left: 0, Top: 840, Right: 1080, Bottom: 1920},
				Children: []*SimNodeSpec{
					{
						Props:  screen.Props{Text: "Recent login: yesterday", Class: "android.widget.TextView"},
						Flags:  screen.Flags{Enabled: true},
						Bounds: screen.Rect{Left: 40, Top: 860, Right: 1040, Bottom: 940},
					},
					{
						Props:  screen.Props{Text: "Recent login: last week", Class: "android.widget.TextView"},
						Flags:  screen.Flags{Enabled: true},
						Bounds: screen.Rect{Left: 40, Top: 960, Right: 1040, Bottom: 1040},
					},
				},
			},
		},
	}
}
