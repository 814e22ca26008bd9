package screen

import "errors"

// ErrEmptySelector reports a selector with no criteria at all. An empty
// selector is a construction error, never a "match nothing" query.
var ErrEmptySelector = errors.New("selector requires at least one criterion")

// Selector is a conjunctive predicate over element properties. Empty fields
// are absent criteria; every present criterion must match exactly. Partial
// or substring matching belongs to a higher-level query language, not here.
type Selector struct {
	Text        string `json:"text,omitempty"`
	ResourceID  string `json:"resourceId,omitempty"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate rejects a selector with no criteria.
func (s Selector) Validate() error {
	if s.Text == "" && s.ResourceID == "" && s.Class == "" && s.Description == "" {
		return ErrEmptySelector
	}
	return nil
}

// Matches reports whether every present criterion equals the corresponding
// property exactly.
func (s Selector) Matches(p Props) bool {
	if s.Text != "" && p.Text != s.Text {
		return false
	}
	if s.ResourceID != "" && p.ResourceID != s.ResourceID {
		return false
	}
	if s.Class != "" && p.Class != s.Class {
		return false
	}
	if s.Description != "" && p.Description != s.Description {
		return false
	}
	return true
}

// MatchesElement applies the selector to a captured element.
func (s Selector) MatchesElement(el *Element) bool {
	return s.Matches(Props{
		Text:        el.Text,
		Description: el.Description,
		Class:       el.Class,
		ResourceID:  el.ResourceID,
	})
}

// CollectElements returns the addresses of every element in the snapshot the
// selector matches, in pre-order. This is the snapshot-side companion to the
// live-handle finder: it involves no handles and no release discipline.
func CollectElements(snap *Snapshot, sel Selector) []Address {
	if snap == nil || snap.Root == nil {
		return nil
	}
	var out []Address
	var walk func(el *Element, path Address)
	walk = func(el *Element, path Address) {
		if sel.MatchesElement(el) {
			addr := make(Address, len(path))
			copy(addr, path)
			out = append(out, addr)
		}
		if len(path) >= MaxTreeDepth {
			return
		}
		for i, child := range el.Children {
			walk(child, append(path, i))
		}
	}
	walk(snap.Root, Address{0})
	return out
}
