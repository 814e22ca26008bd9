package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"Peek/pkg/screen"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerInteractTools registers interaction tools
func (s *Server) registerInteractTools() {
	// tap - Tap the first element matching a selector
	s.server.AddTool(
		mcp.NewTool("tap",
			mcp.WithDescription(`Tap (click) the first element matching the selector.
All given criteria must match exactly; at least one is required.
Returns: outcome (success, element_not_found, action_failed, service_not_connected, error)`),
			mcp.WithString("text", mcp.Description("Exact text to match")),
			mcp.WithString("resource_id", mcp.Description("Exact resource ID to match")),
			mcp.WithString("class", mcp.Description("Exact class name to match")),
			mcp.WithString("description", mcp.Description("Exact content description to match")),
		),
		s.handleTap,
	)

	// long_press - Long-press the first element matching a selector
	s.server.AddTool(
		mcp.NewTool("long_press",
			mcp.WithDescription(`Long-press the first element matching the selector.
Returns: outcome of the operation`),
			mcp.WithString("text", mcp.Description("Exact text to match")),
			mcp.WithString("resource_id", mcp.Description("Exact resource ID to match")),
			mcp.WithString("class", mcp.Description("Exact class name to match")),
			mcp.WithString("description", mcp.Description("Exact content description to match")),
		),
		s.handleLongPress,
	)

	// type_text - Type text into the first element matching a selector
	s.server.AddTool(
		mcp.NewTool("type_text",
			mcp.WithDescription(`Replace the text of the first element matching the selector.
The target is focused first when possible. Input is limited to 10000 characters.
Returns: outcome of the operation`),
			mcp.WithString("input",
				mcp.Required(),
				mcp.Description("Text to type"),
			),
			mcp.WithString("text", mcp.Description("Exact text to match")),
			mcp.WithString("resource_id", mcp.Description("Exact resource ID to match")),
			mcp.WithString("class", mcp.Description("Exact class name to match")),
			mcp.WithString("description", mcp.Description("Exact content description to match")),
		),
		s.handleTypeText,
	)

	// scroll - Scroll a container
	s.server.AddTool(
		mcp.NewTool("scroll",
			mcp.WithDescription(`Scroll a scrollable container forward or backward.
Without a selector, the first scrollable element on screen is used.
Returns: outcome of the operation`),
			mcp.WithBoolean("forward",
				mcp.Description("Scroll direction: true = forward (default), false = backward"),
			),
			mcp.WithString("text", mcp.Description("Exact text to match")),
			mcp.WithString("resource_id", mcp.Description("Exact resource ID to match")),
			mcp.WithString("class", mcp.Description("Exact class name to match")),
			mcp.WithString("description", mcp.Description("Exact content description to match")),
		),
		s.handleScroll,
	)

	// global_action - Perform a system-level action
	s.server.AddTool(
		mcp.NewTool("global_action",
			mcp.WithDescription(`Perform a fixed system-level action: back, home, recents or notifications.
Returns: outcome of the operation`),
			mcp.WithString("action",
				mcp.Required(),
				mcp.Description("One of: back, home, recents, notifications"),
			),
		),
		s.handleGlobalAction,
	)

	// launch_app - Launch a package by name
	s.server.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription(`Launch an application by package name.
Returns: outcome of the operation`),
			mcp.WithString("package",
				mcp.Required(),
				mcp.Description("Package name, e.g. com.example.demo"),
			),
		),
		s.handleLaunchApp,
	)

	// recent_events - Query the event journal
	s.server.AddTool(
		mcp.NewTool("recent_events",
			mcp.WithDescription(`Return recently observed screen events (window and content changes),
newest first, from the event journal.`),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of events to return (default: 50)"),
			),
		),
		s.handleRecentEvents,
	)

	// status - Connection status and version
	s.server.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report whether a host is connected and the agent version"),
		),
		s.handleStatus,
	)
}

// resultToContent renders an ActionResult for the client. Non-success
// outcomes are reported as tool errors so the client can branch on them.
func resultToContent(op string, res ActionResult) *mcp.CallToolResult {
	text := fmt.Sprintf("%s: %s", op, res.Outcome)
	if res.Reason != "" {
		text += fmt.Sprintf(" (%s)", res.Reason)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
		IsError: res.Outcome != screen.OutcomeSuccess,
	}
}

// Tool handlers

func (s *Server) handleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := selectorFromArgs(request.GetArguments())
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selector: %w", err)
	}
	return resultToContent("tap", s.app.Tap(sel)), nil
}

func (s *Server) handleLongPress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := selectorFromArgs(request.GetArguments())
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selector: %w", err)
	}
	return resultToContent("long_press", s.app.LongPress(sel)), nil
}

func (s *Server) handleTypeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	input, ok := args["input"].(string)
	if !ok {
		return nil, fmt.Errorf("input is required")
	}

	sel := selectorFromArgs(args)
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selector: %w", err)
	}
	return resultToContent("type_text", s.app.TypeText(sel, input)), nil
}

func (s *Server) handleScroll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	forward := true
	if v, ok := args["forward"].(bool); ok {
		forward = v
	}

	var sel *Selector
	candidate := selectorFromArgs(args)
	if candidate.Validate() == nil {
		sel = &candidate
	}

	return resultToContent("scroll", s.app.Scroll(sel, forward)), nil
}

func (s *Server) handleGlobalAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	actionStr, ok := args["action"].(string)
	if !ok || actionStr == "" {
		return nil, fmt.Errorf("action is required")
	}

	action := GlobalAction(actionStr)
	switch action {
	case screen.GlobalBack, screen.GlobalHome, screen.GlobalRecents, screen.GlobalNotifications:
	default:
		return nil, fmt.Errorf("invalid action: %q", actionStr)
	}

	return resultToContent("global_action", s.app.PerformGlobalAction(action)), nil
}

func (s *Server) handleLaunchApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	pkg, ok := args["package"].(string)
	if !ok || pkg == "" {
		return nil, fmt.Errorf("package is required")
	}

	return resultToContent("launch_app", s.app.LaunchPackage(pkg)), nil
}

func (s *Server) handleRecentEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	limit := 50
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	events, err := s.app.RecentEvents(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	jsonData, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize events: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf("%d recent events:\n%s", len(events), string(jsonData))),
		},
	}, nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := "disconnected"
	if s.app.IsConnected() {
		state = "connected"
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf("Host %s, agent version %s", state, s.app.Version())),
		},
	}, nil
}
