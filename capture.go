package main

import (
	"errors"
	"fmt"
	"time"

	"Peek/pkg/screen"
)

// ========================================
// Screen capture
// ========================================

// CaptureScreen walks the live node tree once and returns an immutable
// snapshot of it. kindFilter restricts capture to a window kind; the zero
// value accepts any window. Returns screen.ErrNotConnected when no host
// session is live and screen.ErrNoActiveWindow when the host has no current
// root — both are expected conditions, not faults. A screen change
// mid-capture surfaces as an error wrapping screen.ErrStaleNode rather than
// a silently partial tree.
func (a *App) CaptureScreen(kindFilter screen.WindowKind) (*screen.Snapshot, error) {
	sess := a.session()
	if sess == nil {
		return nil, screen.ErrNotConnected
	}

	kind, owner := sess.host.ActiveWindow()
	if kindFilter != "" && kind != kindFilter {
		return nil, screen.ErrNoActiveWindow
	}

	root, err := sess.host.RootNode()
	if err != nil {
		return nil, fmt.Errorf("obtaining root node: %w", err)
	}
	if root == nil {
		return nil, screen.ErrNoActiveWindow
	}
	defer root.Release()

	start := time.Now()
	rootEl, err := walkNode(root, 0, buildElement)
	if err != nil {
		if errors.Is(err, screen.ErrStaleNode) {
			CaptureLog().Err(err).Msg("Screen changed mid-capture")
		} else {
			CaptureLog().Err(err).Msg("Capture failed")
		}
		return nil, fmt.Errorf("capture: %w", err)
	}

	snap := &screen.Snapshot{
		WindowKind: kind,
		OwnerID:    owner,
		Root:       rootEl,
		CapturedAt: time.Now().UnixMilli(),
	}
	CaptureLog().
		Str("window", string(kind)).
		Dur("took", time.Since(start)).
		Msg("Screen captured")
	return snap, nil
}

// buildElement copies one node's scalar state into an owned Element. The
// redaction rule applies here and nowhere later: a sensitive node's text is
// substituted with the fixed marker unconditionally, so no real value ever
// enters the snapshot.
func buildElement(n NodeHandle, depth int, children []*screen.Element, truncated bool) (*screen.Element, error) {
	props := n.Props()
	flags := n.Flags()

	text := props.Text
	if flags.Sensitive {
		text = screen.RedactedText
	}

	return &screen.Element{
		Text:        text,
		Description: props.Description,
		Class:       props.Class,
		ResourceID:  props.ResourceID,
		Bounds:      n.Bounds(),
		Flags:       flags,
		Depth:       depth,
		Truncated:   truncated,
		Children:    children,
	}, nil
}

// DescribeScreen captures the current screen and returns its deterministic
// text rendering.
func (a *App) DescribeScreen() (string, error) {
	snap, err := a.CaptureScreen("")
	if err != nil {
		return "", err
	}
	return screen.Render(snap), nil
}
