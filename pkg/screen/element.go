// Package screen defines the value model shared between the agent core and
// external surfaces (MCP tools): captured element trees, addresses, selectors
// and the typed event model. Everything here is plain data — no live node
// handles ever leak into this package.
package screen

import (
	"fmt"
	"regexp"
	"strconv"
)

// RedactedText replaces the text of any element flagged sensitive during
// capture. The substitution is unconditional: no call site ever sees the
// real value of a sensitive field.
const RedactedText = "[REDACTED]"

// MaxTreeDepth bounds every walk over the live node tree (capture and
// finder). Legitimate UIs nest far shallower; the bound is a defense against
// cyclic or adversarial trees, and hitting it is not an error.
const MaxTreeDepth = 50

// WindowKind classifies the window a snapshot was captured from.
type WindowKind string

const (
	WindowApplication WindowKind = "application"
	WindowSystem      WindowKind = "system"
	WindowInputMethod WindowKind = "input_method"
	WindowUnknown     WindowKind = "unknown"
)

// Rect is an element's on-screen bounds in pixels.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Center returns the midpoint of the rect.
func (r Rect) Center() (int, int) {
	return r.Left + (r.Right-r.Left)/2, r.Top + (r.Bottom-r.Top)/2
}

// Contains checks if point (x, y) is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// String renders the rect in the conventional "[l,t][r,b]" form.
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

var rectRe = regexp.MustCompile(`^\[(\d+),(\d+)\]\[(\d+),(\d+)\]$`)

// ParseRect parses a "[l,t][r,b]" bounds string.
func ParseRect(s string) (Rect, error) {
	m := rectRe.FindStringSubmatch(s)
	if len(m) != 5 {
		return Rect{}, fmt.Errorf("invalid bounds format: %s", s)
	}
	l, _ := strconv.Atoi(m[1])
	t, _ := strconv.Atoi(m[2])
	r, _ := strconv.Atoi(m[3])
	b, _ := strconv.Atoi(m[4])
	return Rect{Left: l, Top: t, Right: r, Bottom: b}, nil
}

// Props are the scalar string properties of one on-screen element.
type Props struct {
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
	Class       string `json:"class,omitempty"`
	ResourceID  string `json:"resourceId,omitempty"`
}

// Flags are the boolean state bits of one on-screen element.
type Flags struct {
	Clickable  bool `json:"clickable,omitempty"`
	Checkable  bool `json:"checkable,omitempty"`
	Checked    bool `json:"checked,omitempty"`
	Enabled    bool `json:"enabled,omitempty"`
	Scrollable bool `json:"scrollable,omitempty"`
	Editable   bool `json:"editable,omitempty"`
	Focusable  bool `json:"focusable,omitempty"`
	Focused    bool `json:"focused,omitempty"`
	Sensitive  bool `json:"sensitive,omitempty"`
}

// Element is one node of a captured screen tree. It holds copied scalar
// values only and is never mutated after capture, so a tree can be shared,
// cached or serialized freely once the capture call returns.
type Element struct {
	Text        string     `json:"text,omitempty"`
	Description string     `json:"description,omitempty"`
	Class       string     `json:"class,omitempty"`
	ResourceID  string     `json:"resourceId,omitempty"`
	Bounds      Rect       `json:"bounds"`
	Flags       Flags      `json:"flags"`
	Depth       int        `json:"depth"`
	Truncated   bool       `json:"truncated,omitempty"` // depth bound reached below this node
	Children    []*Element `json:"children,omitempty"`
}

// Snapshot is one full capture of the visible screen. Snapshots are
// independent of each other; addresses are only meaningful within the
// snapshot they were derived from.
type Snapshot struct {
	WindowKind WindowKind `json:"windowKind"`
	OwnerID    string     `json:"ownerId,omitempty"`
	Root       *Element   `json:"root"`
	CapturedAt int64      `json:"capturedAt"` // unix millis
}
