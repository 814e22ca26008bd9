package main

import (
	"fmt"

	"Peek/pkg/screen"
)

// ========================================
// Bounded tree walker
// ========================================

// nodeBuilder produces one result value per visited node. children holds
// the already-built results for the node's children; truncated is set when
// the depth bound stopped descent below this node.
type nodeBuilder[T any] func(n NodeHandle, depth int, children []T, truncated bool) (T, error)

// walkNode runs a depth-first walk from n, building bottom-up via the
// builder. The root handle stays owned by the caller; every child handle the
// walk obtains is released on every exit path, including when the recursive
// call or the builder fails. At screen.MaxTreeDepth descent stops and the
// node is built as truncated — depth overrun is an expected edge case on
// pathological trees, never an error.
func walkNode[T any](n NodeHandle, depth int, build nodeBuilder[T]) (T, error) {
	var zero T
	if depth >= screen.MaxTreeDepth {
		WalkLog().Int("depth", depth).Msg("Depth bound reached, truncating subtree")
		return build(n, depth, nil, true)
	}

	count := n.ChildCount()
	children := make([]T, 0, count)
	for i := 0; i < count; i++ {
		child, err := n.Child(i)
		if err != nil {
			return zero, fmt.Errorf("child %d at depth %d: %w", i, depth, err)
		}
		if child == nil {
			continue
		}
		built, err := func() (T, error) {
			defer child.Release()
			return walkNode(child, depth+1, build)
		}()
		if err != nil {
			return zero, err
		}
		children = append(children, built)
	}
	return build(n, depth, children, false)
}

// findFirst runs a pre-order depth-first search over live handles and
// returns the first node the predicate accepts, or (nil, nil) when none
// matches. Ownership of the returned handle transfers to the caller
// unreleased; every other handle visited — non-matching nodes and the
// subtrees of nodes without a match — is released before the function
// returns. This asymmetric rule is the most error-prone contract in the
// system; the release accounting tests pin it down.
func findFirst(n NodeHandle, depth int, pred func(NodeHandle) bool) (NodeHandle, error) {
	if pred(n) {
		return n, nil
	}
	if depth+1 >= screen.MaxTreeDepth {
		WalkLog().Int("depth", depth).Msg("Depth bound reached, search truncated")
		return nil, nil
	}

	count := n.ChildCount()
	for i := 0; i < count; i++ {
		child, err := n.Child(i)
		if err != nil {
			return nil, fmt.Errorf("child %d at depth %d: %w", i, depth, err)
		}
		if child == nil {
			continue
		}
		found, err := func() (NodeHandle, error) {
			keep := false
			defer func() {
				if !keep {
					child.Release()
				}
			}()
			f, err := findFirst(child, depth+1, pred)
			if err != nil {
				return nil, err
			}
			// The match may be the child itself or a handle deeper in its
			// subtree; only the returned handle survives unreleased.
			if f == child {
				keep = true
			}
			return f, nil
		}()
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}
