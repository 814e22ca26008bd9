package mcp

import (
	"sync"

	"Peek/pkg/screen"
)

// MockApp is a mock implementation of the AgentApp interface for testing
// and for exercising the MCP surface without a live host.
type MockApp struct {
	mu sync.Mutex

	// Snapshot returned by CaptureScreen; nil simulates no active window.
	Snap *Snapshot
	// CaptureErr, when set, is returned by CaptureScreen instead.
	CaptureErr error

	// Result returned by every interaction operation.
	Result ActionResult

	// Events returned by RecentEvents.
	Events []StoredEvent

	Connected  bool
	AppVersion string

	// Recorded calls.
	Taps          []Selector
	LongPresses   []Selector
	TypedInputs   []string
	TypedTargets  []Selector
	Scrolls       []bool
	GlobalActions []GlobalAction
	Launched      []string
}

// NewMockApp creates a mock with a small application snapshot and
// success results.
func NewMockApp() *MockApp {
	return &MockApp{
		Snap:       mockSnapshot(),
		Result:     screen.Success(),
		Connected:  true,
		AppVersion: "test",
	}
}

func mockSnapshot() *Snapshot {
	return &Snapshot{
		WindowKind: screen.WindowApplication,
		OwnerID:    "com.example.mock",
		CapturedAt: 1700000000000,
		Root: &Element{
			Class:  "android.widget.FrameLayout",
			Flags:  screen.Flags{Enabled: true},
			Bounds: screen.Rect{Left: 0, Top: 0, Right: 1080, Bottom: 1920},
			Children: []*Element{
				{
					Text:       "Submit",
					Class:      "android.widget.Button",
					ResourceID: "com.example.mock:id/submit",
					Flags:      screen.Flags{Enabled: true, Clickable: true},
					Bounds:     screen.Rect{Left: 40, Top: 600, Right: 1040, Bottom: 720},
				},
				{
					Class:      "android.widget.ScrollView",
					ResourceID: "com.example.mock:id/list",
					Flags:      screen.Flags{Enabled: true, Scrollable: true},
					Bounds:     screen.Rect{Left: 0, Top: 760, Right: 1080, Bottom: 1920},
				},
			},
		},
	}
}

// CaptureScreen implements AgentApp.
func (m *MockApp) CaptureScreen(kindFilter WindowKind) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CaptureErr != nil {
		return nil, m.CaptureErr
	}
	if m.Snap == nil {
		return nil, screen.ErrNoActiveWindow
	}
	if kindFilter != "" && m.Snap.WindowKind != kindFilter {
		return nil, screen.ErrNoActiveWindow
	}
	return m.Snap, nil
}

// DescribeScreen implements AgentApp.
func (m *MockApp) DescribeScreen() (string, error) {
	snap, err := m.CaptureScreen("")
	if err != nil {
		return "", err
	}
	return screen.Render(snap), nil
}

// Tap implements AgentApp.
func (m *MockApp) Tap(sel Selector) ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Taps = append(m.Taps, sel)
	return m.Result
}

// LongPress implements AgentApp.
func (m *MockApp) LongPress(sel Selector) ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LongPresses = append(m.LongPresses, sel)
	return m.Result
}

// TypeText implements AgentApp.
func (m *MockApp) TypeText(sel Selector, text string) ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TypedTargets = append(m.TypedTargets, sel)
	m.TypedInputs = append(m.TypedInputs, text)
	return m.Result
}

// Scroll implements AgentApp.
func (m *MockApp) Scroll(sel *Selector, forward bool) ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scrolls = append(m.Scrolls, forward)
	return m.Result
}

// PerformGlobalAction implements AgentApp.
func (m *MockApp) PerformGlobalAction(action GlobalAction) ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GlobalActions = append(m.GlobalActions, action)
	return m.Result
}

// LaunchPackage implements AgentApp.
func (m *MockApp) LaunchPackage(pkg string) ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Launched = append(m.Launched, pkg)
	return m.Result
}

// RecentEvents implements AgentApp.
func (m *MockApp) RecentEvents(limit int) ([]StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > 0 && limit < len(m.Events) {
		return m.Events[:limit], nil
	}
	return m.Events, nil
}

// IsConnected implements AgentApp.
func (m *MockApp) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Connected
}

// Version implements AgentApp.
func (m *MockApp) Version() string {
	return m.AppVersion
}
