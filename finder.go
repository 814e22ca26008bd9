package main

import "Peek/pkg/screen"

// ========================================
// Live-handle selector finder
// ========================================

// findBySelector searches the live tree under root, pre-order, and returns
// the first handle matching every criterion in the selector, or (nil, nil)
// when nothing matches. The returned handle is NOT released — ownership
// transfers to the caller. First match wins; the search is deterministic
// for a given tree shape but makes no promise about which of several
// matches is "best".
func findBySelector(root NodeHandle, sel screen.Selector) (NodeHandle, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return findFirst(root, 0, func(n NodeHandle) bool {
		return sel.Matches(n.Props())
	})
}

// findFirstScrollable locates the first scrollable node under root, used by
// Scroll when the caller gives no selector. Same depth and release
// discipline as the selector search.
func findFirstScrollable(root NodeHandle) (NodeHandle, error) {
	return findFirst(root, 0, func(n NodeHandle) bool {
		return n.Flags().Scrollable
	})
}
