package screen

import (
	"strings"
	"testing"
)

func TestRenderBasicShape(t *testing.T) {
	snap := buildSnapshot()
	out := Render(snap)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 element lines, got %d:\n%s", len(lines), out)
	}

	if !strings.HasPrefix(lines[0], "window=application owner=com.app capturedAt=") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[0] FrameLayout") {
		t.Errorf("root line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  [0.0] LinearLayout") {
		t.Errorf("first child line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "    [0.0.0] TextView") {
		t.Errorf("grandchild line = %q", lines[3])
	}
	if !strings.Contains(lines[5], "[0.1] Button") {
		t.Errorf("second child line = %q", lines[5])
	}
}

func TestRenderDeterministic(t *testing.T) {
	snap := buildSnapshot()
	first := Render(snap)
	for i := 0; i < 5; i++ {
		if got := Render(snap); got != first {
			t.Fatal("Render output differs between calls on the same snapshot")
		}
	}
}

func TestRenderRedactsSensitiveText(t *testing.T) {
	snap := &Snapshot{
		WindowKind: WindowApplication,
		Root: &Element{
			Class: "android.widget.FrameLayout",
			Children: []*Element{
				{
					Text:  "hunter2",
					Class: "android.widget.EditText",
					Flags: Flags{Sensitive: true, Editable: true},
				},
			},
		},
	}

	out := Render(snap)
	if strings.Contains(out, "hunter2") {
		t.Fatalf("sensitive text leaked into render:\n%s", out)
	}
	if !strings.Contains(out, RedactedText) {
		t.Errorf("expected %q in render:\n%s", RedactedText, out)
	}
}

func TestRenderTruncationMarker(t *testing.T) {
	snap := &Snapshot{
		WindowKind: WindowApplication,
		Root: &Element{
			Class:     "android.widget.FrameLayout",
			Truncated: true,
			// Children below a truncated node must not render even if present.
			Children: []*Element{
				{Text: "hidden", Class: "android.widget.TextView"},
			},
		},
	}

	out := Render(snap)
	if !strings.Contains(out, "... (max depth reached)") {
		t.Errorf("expected truncation marker in render:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("children below truncated node rendered:\n%s", out)
	}
}

func TestRenderFlagsAndBounds(t *testing.T) {
	snap := &Snapshot{
		WindowKind: WindowApplication,
		Root: &Element{
			Text:   "Go",
			Class:  "android.widget.Button",
			Bounds: Rect{Left: 10, Top: 20, Right: 30, Bottom: 40},
			Flags:  Flags{Clickable: true, Enabled: true},
		},
	}

	out := Render(snap)
	if !strings.Contains(out, "[10,20][30,40]") {
		t.Errorf("expected bounds in render:\n%s", out)
	}
	if !strings.Contains(out, "[clickable,enabled]") {
		t.Errorf("expected flag list in render:\n%s", out)
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
	if got := Render(&Snapshot{}); got != "" {
		t.Errorf("Render(no root) = %q, want empty", got)
	}
}

func TestSimpleClassName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"android.widget.Button", "Button"},
		{"Button", "Button"},
		{"", "View"},
	}
	for _, tt := range tests {
		if got := simpleClassName(tt.in); got != tt.want {
			t.Errorf("simpleClassName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("[0,0][1080,1920]")
	if err != nil {
		t.Fatalf("ParseRect: %v", err)
	}
	if r != (Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920}) {
		t.Errorf("ParseRect = %+v", r)
	}
	if r.String() != "[0,0][1080,1920]" {
		t.Errorf("round trip = %q", r.String())
	}

	for _, bad := range []string{"", "[0,0]", "0,0,1080,1920", "[a,b][c,d]"} {
		if _, err := ParseRect(bad); err == nil {
			t.Errorf("ParseRect(%q): expected error", bad)
		}
	}
}
