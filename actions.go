package main

import (
	"unicode/utf8"

	"Peek/pkg/screen"
)

// ========================================
// Interaction operations
// ========================================

// MaxInputLength caps TypeText input, in code points. A DoS guard against
// pathological payloads, checked before any host call — not a UX validation.
const MaxInputLength = 10000

// withTarget is the template every interaction operation follows: liveness
// check, resolve one target handle, perform exactly one primitive inside a
// scope that releases the handle on every exit path, map the outcome.
func (a *App) withTarget(op string, locate func(root NodeHandle) (NodeHandle, error), act func(n NodeHandle) screen.ActionResult) screen.ActionResult {
	sess := a.session()
	if sess == nil {
		return screen.NotConnected()
	}

	root, err := sess.host.RootNode()
	if err != nil {
		ActionLog().Str("op", op).Err(err).Msg("Root node unavailable")
		return screen.Errored(err.Error())
	}
	if root == nil {
		return screen.NotFound()
	}

	return func() screen.ActionResult {
		defer root.Release()

		target, err := locate(root)
		if err != nil {
			ActionLog().Str("op", op).Err(err).Msg("Target resolution failed")
			return screen.Errored(err.Error())
		}
		if target == nil {
			LogDebug("action").Str("op", op).Msg("Element not found")
			return screen.NotFound()
		}
		// The target may be the root itself, in which case the deferred
		// release above already covers it.
		if target != root {
			defer target.Release()
		}
		return act(target)
	}()
}

// Tap resolves the selector and clicks the matching element.
func (a *App) Tap(sel screen.Selector) screen.ActionResult {
	return a.withTarget("tap",
		func(root NodeHandle) (NodeHandle, error) { return findBySelector(root, sel) },
		func(n NodeHandle) screen.ActionResult {
			if !n.Perform(ActionClick) {
				return screen.Failed("click not accepted by host")
			}
			return screen.Success()
		})
}

// LongPress resolves the selector and long-clicks the matching element.
func (a *App) LongPress(sel screen.Selector) screen.ActionResult {
	return a.withTarget("long_press",
		func(root NodeHandle) (NodeHandle, error) { return findBySelector(root, sel) },
		func(n NodeHandle) screen.ActionResult {
			if !n.Perform(ActionLongClick) {
				return screen.Failed("long-click not accepted by host")
			}
			return screen.Success()
		})
}

// TypeText resolves the selector, focuses the element and replaces its text.
// Oversized input is rejected before any host call, focus included.
func (a *App) TypeText(sel screen.Selector, text string) screen.ActionResult {
	if utf8.RuneCountInString(text) > MaxInputLength {
		return screen.Errored("input exceeds maximum length")
	}
	return a.withTarget("type_text",
		func(root NodeHandle) (NodeHandle, error) { return findBySelector(root, sel) },
		func(n NodeHandle) screen.ActionResult {
			// Focus is best-effort; hosts accept SetText on unfocused
			// editable nodes.
			n.Perform(ActionFocus)
			if !n.SetText(text) {
				return screen.Failed("set-text not accepted by host")
			}
			return screen.Success()
		})
}

// Scroll resolves the selector — or, when sel is nil, the first scrollable
// node on screen — and scrolls it one page forward or backward.
func (a *App) Scroll(sel *screen.Selector, forward bool) screen.ActionResult {
	locate := func(root NodeHandle) (NodeHandle, error) {
		if sel == nil {
			return findFirstScrollable(root)
		}
		return findBySelector(root, *sel)
	}
	return a.withTarget("scroll", locate, func(n NodeHandle) screen.ActionResult {
		action := ActionScrollForward
		if !forward {
			action = ActionScrollBackward
		}
		if !n.Perform(action) {
			return screen.Failed(action.String() + " not accepted by host")
		}
		return screen.Success()
	})
}

// PerformGlobalAction dispatches one fixed system-level action (back, home,
// recents, notifications). Thin pass-through over the host dispatcher.
func (a *App) PerformGlobalAction(action screen.GlobalAction) screen.ActionResult {
	sess := a.session()
	if sess == nil {
		return screen.NotConnected()
	}
	if !sess.host.PerformGlobalAction(action) {
		return screen.Failed("global action " + string(action) + " not accepted by host")
	}
	return screen.Success()
}

// LaunchPackage starts the named package on the host.
func (a *App) LaunchPackage(pkg string) screen.ActionResult {
	sess := a.session()
	if sess == nil {
		return screen.NotConnected()
	}
	if pkg == "" {
		return screen.Errored("package name is empty")
	}
	if !sess.host.LaunchPackage(pkg) {
		return screen.Failed("package " + pkg + " could not be launched")
	}
	return screen.Success()
}
