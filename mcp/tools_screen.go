package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"Peek/pkg/screen"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerScreenTools registers screen inspection tools
func (s *Server) registerScreenTools() {
	// capture_screen - Capture the current screen as a JSON tree
	s.server.AddTool(
		mcp.NewTool("capture_screen",
			mcp.WithDescription(`Capture the current screen as an immutable element tree.
Each element carries text, class, resource id, bounds and interactability flags.
Returns: JSON snapshot with window kind, owning package and the root element`),
			mcp.WithString("window_kind",
				mcp.Description("Only capture if the active window has this kind: application, system, input_method (default: any)"),
			),
		),
		s.handleCaptureScreen,
	)

	// describe_screen - Render the screen as a text outline
	s.server.AddTool(
		mcp.NewTool("describe_screen",
			mcp.WithDescription(`Render the current screen as an indented, human-readable outline.
Each line carries the element address, class, text and bounds.
Addresses from this outline can be passed to resolve_element.`),
		),
		s.handleDescribeScreen,
	)

	// resolve_element - Resolve an index path address against a fresh snapshot
	s.server.AddTool(
		mcp.NewTool("resolve_element",
			mcp.WithDescription(`Resolve an element address (dot-separated child indexes, e.g. "0.2.1")
against a fresh snapshot and return that element.
Fails with the deepest valid prefix when the path no longer exists.`),
			mcp.WithString("address",
				mcp.Required(),
				mcp.Description(`Element address, e.g. "0.2.1". The first index is always 0 (the root).`),
			),
		),
		s.handleResolveElement,
	)

	// find_elements - Find all elements matching a selector
	s.server.AddTool(
		mcp.NewTool("find_elements",
			mcp.WithDescription(`Find all elements on the current screen matching a selector.
All given criteria must match exactly; omitted criteria match anything.
Returns: addresses and properties of every match, in document order`),
			mcp.WithString("text",
				mcp.Description("Exact text to match"),
			),
			mcp.WithString("resource_id",
				mcp.Description("Exact resource ID to match"),
			),
			mcp.WithString("class",
				mcp.Description("Exact class name to match"),
			),
			mcp.WithString("description",
				mcp.Description("Exact content description to match"),
			),
		),
		s.handleFindElements,
	)
}

// selectorFromArgs builds a Selector from the optional selector arguments.
func selectorFromArgs(args map[string]interface{}) Selector {
	sel := Selector{}
	if v, ok := args["text"].(string); ok {
		sel.Text = v
	}
	if v, ok := args["resource_id"].(string); ok {
		sel.ResourceID = v
	}
	if v, ok := args["class"].(string); ok {
		sel.Class = v
	}
	if v, ok := args["description"].(string); ok {
		sel.Description = v
	}
	return sel
}

// windowKindFromArgs parses the optional window_kind argument. An empty or
// absent value means no filter.
func windowKindFromArgs(args map[string]interface{}) (WindowKind, error) {
	v, ok := args["window_kind"].(string)
	if !ok || v == "" {
		return "", nil
	}
	switch WindowKind(v) {
	case screen.WindowApplication, screen.WindowSystem, screen.WindowInputMethod:
		return WindowKind(v), nil
	}
	return "", fmt.Errorf("invalid window_kind: %q", v)
}

// Tool handlers

func (s *Server) handleCaptureScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kindFilter, err := windowKindFromArgs(args)
	if err != nil {
		return nil, err
	}

	snap, err := s.app.CaptureScreen(kindFilter)
	if err != nil {
		if errors.Is(err, screen.ErrNoActiveWindow) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("No active window to capture"),
				},
			}, nil
		}
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(jsonData)),
		},
	}, nil
}

func (s *Server) handleDescribeScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outline, err := s.app.DescribeScreen()
	if err != nil {
		if errors.Is(err, screen.ErrNoActiveWindow) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("No active window to describe"),
				},
			}, nil
		}
		return nil, fmt.Errorf("failed to describe screen: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(outline),
		},
	}, nil
}

func (s *Server) handleResolveElement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	addrStr, ok := args["address"].(string)
	if !ok || addrStr == "" {
		return nil, fmt.Errorf("address is required")
	}

	addr, err := screen.ParseAddress(addrStr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addrStr, err)
	}

	snap, err := s.app.CaptureScreen("")
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	el, err := screen.Resolve(snap, addr)
	if err != nil {
		var pathErr *screen.PathError
		if errors.As(err, &pathErr) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf(
						"Address %s no longer exists; deepest valid prefix: %s",
						addr, pathErr.ValidPrefix)),
				},
				IsError: true,
			}, nil
		}
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}

	jsonData, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize element: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(jsonData)),
		},
	}, nil
}

// foundElement pairs an address with the matched element for find_elements.
type foundElement struct {
	Address     string       `json:"address"`
	Text        string       `json:"text,omitempty"`
	Description string       `json:"description,omitempty"`
	Class       string       `json:"class,omitempty"`
	ResourceID  string       `json:"resourceId,omitempty"`
	Bounds      string       `json:"bounds"`
	Flags       screen.Flags `json:"flags"`
}

func (s *Server) handleFindElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	sel := selectorFromArgs(args)
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selector: %w", err)
	}

	snap, err := s.app.CaptureScreen("")
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	addrs := screen.CollectElements(snap, sel)

	found := make([]foundElement, 0, len(addrs))
	for _, addr := range addrs {
		el, err := screen.Resolve(snap, addr)
		if err != nil {
			continue
		}
		found = append(found, foundElement{
			Address:     addr.String(),
			Text:        el.Text,
			Description: el.Description,
			Class:       el.Class,
			ResourceID:  el.ResourceID,
			Bounds:      el.Bounds.String(),
			Flags:       el.Flags,
		})
	}

	jsonData, err := json.MarshalIndent(found, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize matches: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf("Found %d matching elements:\n%s", len(found), string(jsonData))),
		},
	}, nil
}
