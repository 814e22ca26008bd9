package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"Peek/pkg/screen"

	"github.com/mark3labs/mcp-go/mcp"
)

// Helper to create a CallToolRequest with the given arguments
func makeToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// Helper to get text content from result
func getTextContent(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// ==================== capture_screen ====================

func TestHandleCaptureScreen_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleCaptureScreen(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := getTextContent(result)
	var snap Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		t.Fatalf("Result should be valid JSON: %v", err)
	}
	if snap.OwnerID != "com.example.mock" {
		t.Errorf("Expected owner com.example.mock, got %q", snap.OwnerID)
	}
	if snap.Root == nil || len(snap.Root.Children) != 2 {
		t.Errorf("Expected root with 2 children, got %+v", snap.Root)
	}
}

func TestHandleCaptureScreen_KindFilter(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleCaptureScreen(context.Background(), makeToolRequest(map[string]interface{}{
		"window_kind": "system",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Mock snapshot is an application window, so the filter rejects it.
	if !strings.Contains(getTextContent(result), "No active window") {
		t.Errorf("Expected no-active-window message, got %q", getTextContent(result))
	}
}

func TestHandleCaptureScreen_InvalidKind(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleCaptureScreen(context.Background(), makeToolRequest(map[string]interface{}{
		"window_kind": "desktop",
	}))
	if err == nil {
		t.Fatal("Expected error for invalid window_kind")
	}
}

func TestHandleCaptureScreen_NoWindow(t *testing.T) {
	mock := NewMockApp()
	mock.Snap = nil
	server := NewServer(mock)

	result, err := server.handleCaptureScreen(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(getTextContent(result), "No active window") {
		t.Errorf("Expected no-active-window message, got %q", getTextContent(result))
	}
}

func TestHandleCaptureScreen_NotConnected(t *testing.T) {
	mock := NewMockApp()
	mock.CaptureErr = screen.ErrNotConnected
	server := NewServer(mock)

	_, err := server.handleCaptureScreen(context.Background(), makeToolRequest(map[string]interface{}{}))
	if !errors.Is(err, screen.ErrNotConnected) {
		t.Fatalf("Expected wrapped ErrNotConnected, got %v", err)
	}
}

// ==================== describe_screen ====================

func TestHandleDescribeScreen_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleDescribeScreen(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := getTextContent(result)
	if !strings.HasPrefix(text, "window=application owner=com.example.mock") {
		t.Errorf("Expected outline header, got %q", text)
	}
	if !strings.Contains(text, "[0.0] Button") {
		t.Errorf("Expected button line in outline, got:\n%s", text)
	}
}

func TestHandleDescribeScreen_NoWindow(t *testing.T) {
	mock := NewMockApp()
	mock.Snap = nil
	server := NewServer(mock)

	result, err := server.handleDescribeScreen(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(getTextContent(result), "No active window") {
		t.Errorf("Expected no-active-window message, got %q", getTextContent(result))
	}
}

// ==================== resolve_element ====================

func TestHandleResolveElement_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleResolveElement(context.Background(), makeToolRequest(map[string]interface{}{
		"address": "0.0",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var el Element
	if err := json.Unmarshal([]byte(getTextContent(result)), &el); err != nil {
		t.Fatalf("Result should be valid JSON: %v", err)
	}
	if el.Text != "Submit" {
		t.Errorf("Expected Submit element, got %q", el.Text)
	}
}

func TestHandleResolveElement_MissingAddress(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleResolveElement(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err == nil {
		t.Fatal("Expected error for missing address")
	}
}

func TestHandleResolveElement_InvalidAddress(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleResolveElement(context.Background(), makeToolRequest(map[string]interface{}{
		"address": "1.x",
	}))
	if !errors.Is(err, screen.ErrInvalidFormat) {
		t.Fatalf("Expected wrapped ErrInvalidFormat, got %v", err)
	}
}

func TestHandleResolveElement_StalePath(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	// The mock tree has two children under the root; index 5 is gone.
	result, err := server.handleResolveElement(context.Background(), makeToolRequest(map[string]interface{}{
		"address": "0.5",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError for a dangling address")
	}
	text := getTextContent(result)
	if !strings.Contains(text, "deepest valid prefix: 0") {
		t.Errorf("Expected deepest valid prefix in message, got %q", text)
	}
}

// ==================== find_elements ====================

func TestHandleFindElements_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleFindElements(context.Background(), makeToolRequest(map[string]interface{}{
		"text": "Submit",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := getTextContent(result)
	if !strings.HasPrefix(text, "Found 1 matching elements:") {
		t.Errorf("Expected 1 match, got %q", text)
	}
	if !strings.Contains(text, `"address": "0.0"`) {
		t.Errorf("Expected address 0.0 in matches, got:\n%s", text)
	}
}

func TestHandleFindElements_NoMatch(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleFindElements(context.Background(), makeToolRequest(map[string]interface{}{
		"text": "No such text",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(getTextContent(result), "Found 0 matching elements:") {
		t.Errorf("Expected 0 matches, got %q", getTextContent(result))
	}
}

func TestHandleFindElements_EmptySelector(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleFindElements(context.Background(), makeToolRequest(map[string]interface{}{}))
	if !errors.Is(err, screen.ErrEmptySelector) {
		t.Fatalf("Expected wrapped ErrEmptySelector, got %v", err)
	}
}
