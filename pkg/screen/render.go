package screen

import (
	"fmt"
	"strings"
)

// truncationLine replaces subtrees cut off by the capture depth bound in the
// rendered form.
const truncationLine = "... (max depth reached)"

// Render produces the deterministic, indentation-based text form of a
// snapshot. Each element renders as one line:
//
//	[<address>] <simpleClass> <inlineProps> [<flags>]
//
// Sensitive elements never render text, even if a real value were somehow
// present on the element.
func Render(snap *Snapshot) string {
	if snap == nil || snap.Root == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "window=%s", snap.WindowKind)
	if snap.OwnerID != "" {
		fmt.Fprintf(&b, " owner=%s", snap.OwnerID)
	}
	fmt.Fprintf(&b, " capturedAt=%d\n", snap.CapturedAt)
	renderElement(&b, snap.Root, Address{0}, 0)
	return b.String()
}

func renderElement(b *strings.Builder, el *Element, addr Address, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	fmt.Fprintf(b, "[%s] %s", addr, simpleClassName(el.Class))

	if el.Flags.Sensitive {
		fmt.Fprintf(b, " text=%q", RedactedText)
	} else if el.Text != "" {
		fmt.Fprintf(b, " text=%q", el.Text)
	}
	if el.Description != "" {
		fmt.Fprintf(b, " desc=%q", el.Description)
	}
	if el.ResourceID != "" {
		fmt.Fprintf(b, " id=%s", el.ResourceID)
	}
	fmt.Fprintf(b, " %s", el.Bounds)

	if flags := flagNames(el.Flags); len(flags) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(flags, ","))
	}
	b.WriteByte('\n')

	if el.Truncated {
		b.WriteString(strings.Repeat("  ", indent+1))
		b.WriteString(truncationLine)
		b.WriteByte('\n')
		return
	}
	for i, child := range el.Children {
		renderElement(b, child, append(addr, i), indent+1)
	}
}

// simpleClassName strips the package prefix from a fully-qualified class
// name, e.g. "android.widget.Button" -> "Button".
func simpleClassName(class string) string {
	if class == "" {
		return "View"
	}
	if idx := strings.LastIndex(class, "."); idx != -1 {
		return class[idx+1:]
	}
	return class
}

func flagNames(f Flags) []string {
	var names []string
	if f.Clickable {
		names = append(names, "clickable")
	}
	if f.Checkable {
		names = append(names, "checkable")
	}
	if f.Checked {
		names = append(names, "checked")
	}
	if f.Enabled {
		names = append(names, "enabled")
	}
	if f.Scrollable {
		names = append(names, "scrollable")
	}
	if f.Editable {
		names = append(names, "editable")
	}
	if f.Focusable {
		names = append(names, "focusable")
	}
	if f.Focused {
		names = append(names, "focused")
	}
	if f.Sensitive {
		names = append(names, "sensitive")
	}
	return names
}
