package screen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxAddressDepth bounds how long an address may be before Resolve even
// attempts to walk it. Addresses this long cannot come from a legitimate
// capture (MaxTreeDepth caps the tree itself); the separate, larger bound is
// a guard against adversarially long address strings from external callers.
const MaxAddressDepth = 100

// ErrInvalidFormat reports an address string that does not parse: empty
// input, non-numeric segments, or negative indices.
var ErrInvalidFormat = errors.New("invalid address format")

// Address identifies an element within one specific snapshot as a path of
// child indices. The first index is always 0 and marks the root. Addresses
// never carry meaning across snapshots.
type Address []int

// String renders the address in its dot-joined wire form, e.g. "0.2.1".
func (a Address) String() string {
	parts := make([]string, len(a))
	for i, idx := range a {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Equal reports structural equality.
func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParseAddress parses a dot-joined address string. Malformed input of any
// shape returns ErrInvalidFormat, which is distinct from the out-of-range
// PathError that Resolve reports for well-formed but invalid paths.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidFormat)
	}
	parts := strings.Split(s, ".")
	addr := make(Address, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidFormat, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric segment %q", ErrInvalidFormat, p)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative index %d", ErrInvalidFormat, n)
		}
		addr = append(addr, n)
	}
	if addr[0] != 0 {
		return nil, fmt.Errorf("%w: address must start at the root index 0", ErrInvalidFormat)
	}
	return addr, nil
}

// PathError reports a well-formed address that does not resolve in the given
// snapshot. ValidPrefix is the longest prefix that was actually walked, for
// diagnostics.
type PathError struct {
	Addr        Address
	ValidPrefix Address
}

func (e *PathError) Error() string {
	return fmt.Sprintf("address %s not in snapshot (valid prefix: %s)", e.Addr, e.ValidPrefix)
}

// Resolve walks the snapshot along addr and returns the element it names.
// Out-of-range indices return a *PathError carrying the longest valid
// prefix. Addresses longer than MaxAddressDepth are rejected immediately
// without any traversal.
func Resolve(snap *Snapshot, addr Address) (*Element, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidFormat)
	}
	if len(addr) > MaxAddressDepth {
		return nil, &PathError{Addr: addr, ValidPrefix: nil}
	}
	if addr[0] != 0 {
		return nil, fmt.Errorf("%w: address must start at the root index 0", ErrInvalidFormat)
	}
	if snap == nil || snap.Root == nil {
		return nil, &PathError{Addr: addr, ValidPrefix: nil}
	}
	cur := snap.Root
	for i, idx := range addr[1:] {
		if idx >= len(cur.Children) {
			return nil, &PathError{Addr: addr, ValidPrefix: addr[:i+1]}
		}
		cur = cur.Children[idx]
	}
	return cur, nil
}

// AddressOf searches the snapshot for the given element by reference
// identity and returns its address, or nil when the element is not part of
// this snapshot's tree (that is not an error) or lies beyond the depth
// bound.
func AddressOf(snap *Snapshot, el *Element) Address {
	if snap == nil || snap.Root == nil || el == nil {
		return nil
	}
	var walk func(cur *Element, path Address) Address
	walk = func(cur *Element, path Address) Address {
		if cur == el {
			out := make(Address, len(path))
			copy(out, path)
			return out
		}
		if len(path) >= MaxTreeDepth {
			return nil
		}
		for i, child := range cur.Children {
			if found := walk(child, append(path, i)); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(snap.Root, Address{0})
}
