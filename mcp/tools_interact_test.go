package mcp

import (
	"context"
	"strings"
	"testing"

	"Peek/pkg/screen"
)

// ==================== tap ====================

func TestHandleTap_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleTap(context.Background(), makeToolRequest(map[string]interface{}{
		"text": "Submit",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}
	if !strings.Contains(getTextContent(result), "tap: success") {
		t.Errorf("Expected outcome in text, got %q", getTextContent(result))
	}

	if len(mock.Taps) != 1 {
		t.Fatalf("Expected 1 recorded tap, got %d", len(mock.Taps))
	}
	if mock.Taps[0].Text != "Submit" {
		t.Errorf("Expected selector text Submit, got %q", mock.Taps[0].Text)
	}
}

func TestHandleTap_EmptySelector(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleTap(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err == nil {
		t.Fatal("Expected error for empty selector")
	}
	if len(mock.Taps) != 0 {
		t.Errorf("Expected no tap recorded, got %d", len(mock.Taps))
	}
}

func TestHandleTap_NotFound(t *testing.T) {
	mock := NewMockApp()
	mock.Result = screen.NotFound()
	server := NewServer(mock)

	result, err := server.handleTap(context.Background(), makeToolRequest(map[string]interface{}{
		"text": "Missing",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError for element_not_found outcome")
	}
	if !strings.Contains(getTextContent(result), "element_not_found") {
		t.Errorf("Expected outcome in text, got %q", getTextContent(result))
	}
}

func TestHandleTap_FailedWithReason(t *testing.T) {
	mock := NewMockApp()
	mock.Result = screen.Failed("click not accepted by host")
	server := NewServer(mock)

	result, err := server.handleTap(context.Background(), makeToolRequest(map[string]interface{}{
		"text": "Submit",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := getTextContent(result)
	if !strings.Contains(text, "action_failed") || !strings.Contains(text, "click not accepted by host") {
		t.Errorf("Expected outcome and reason in text, got %q", text)
	}
}

// ==================== long_press ====================

func TestHandleLongPress_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleLongPress(context.Background(), makeToolRequest(map[string]interface{}{
		"resource_id": "com.example.mock:id/submit",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}
	if len(mock.LongPresses) != 1 {
		t.Fatalf("Expected 1 recorded long press, got %d", len(mock.LongPresses))
	}
	if mock.LongPresses[0].ResourceID != "com.example.mock:id/submit" {
		t.Errorf("Expected selector resource id, got %q", mock.LongPresses[0].ResourceID)
	}
}

// ==================== type_text ====================

func TestHandleTypeText_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleTypeText(context.Background(), makeToolRequest(map[string]interface{}{
		"input":       "alice",
		"resource_id": "com.example.mock:id/submit",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}

	if len(mock.TypedInputs) != 1 || mock.TypedInputs[0] != "alice" {
		t.Errorf("Expected typed input alice, got %v", mock.TypedInputs)
	}
	if len(mock.TypedTargets) != 1 || mock.TypedTargets[0].ResourceID != "com.example.mock:id/submit" {
		t.Errorf("Expected typed target selector, got %v", mock.TypedTargets)
	}
}

func TestHandleTypeText_MissingInput(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleTypeText(context.Background(), makeToolRequest(map[string]interface{}{
		"resource_id": "com.example.mock:id/submit",
	}))
	if err == nil {
		t.Fatal("Expected error for missing input")
	}
}

func TestHandleTypeText_EmptyInputAllowed(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	// Empty input clears the field; it is valid.
	result, err := server.handleTypeText(context.Background(), makeToolRequest(map[string]interface{}{
		"input":       "",
		"resource_id": "com.example.mock:id/submit",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}
	if len(mock.TypedInputs) != 1 || mock.TypedInputs[0] != "" {
		t.Errorf("Expected one empty typed input, got %v", mock.TypedInputs)
	}
}

// ==================== scroll ====================

func TestHandleScroll_DefaultForward(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleScroll(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}
	if len(mock.Scrolls) != 1 || mock.Scrolls[0] != true {
		t.Errorf("Expected one forward scroll, got %v", mock.Scrolls)
	}
}

func TestHandleScroll_Backward(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleScroll(context.Background(), makeToolRequest(map[string]interface{}{
		"forward": false,
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(mock.Scrolls) != 1 || mock.Scrolls[0] != false {
		t.Errorf("Expected one backward scroll, got %v", mock.Scrolls)
	}
}

// ==================== global_action ====================

func TestHandleGlobalAction_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleGlobalAction(context.Background(), makeToolRequest(map[string]interface{}{
		"action": "back",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}
	if len(mock.GlobalActions) != 1 || mock.GlobalActions[0] != screen.GlobalBack {
		t.Errorf("Expected recorded back action, got %v", mock.GlobalActions)
	}
}

func TestHandleGlobalAction_Invalid(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleGlobalAction(context.Background(), makeToolRequest(map[string]interface{}{
		"action": "reboot",
	}))
	if err == nil {
		t.Fatal("Expected error for invalid action")
	}
	if len(mock.GlobalActions) != 0 {
		t.Errorf("Expected no action recorded, got %v", mock.GlobalActions)
	}
}

func TestHandleGlobalAction_Missing(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleGlobalAction(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err == nil {
		t.Fatal("Expected error for missing action")
	}
}

// ==================== launch_app ====================

func TestHandleLaunchApp_Success(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleLaunchApp(context.Background(), makeToolRequest(map[string]interface{}{
		"package": "com.example.other",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("Expected success result, got %q", getTextContent(result))
	}
	if len(mock.Launched) != 1 || mock.Launched[0] != "com.example.other" {
		t.Errorf("Expected recorded launch, got %v", mock.Launched)
	}
}

func TestHandleLaunchApp_MissingPackage(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	_, err := server.handleLaunchApp(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err == nil {
		t.Fatal("Expected error for missing package")
	}
}

// ==================== recent_events ====================

func TestHandleRecentEvents_Success(t *testing.T) {
	mock := NewMockApp()
	mock.Events = []StoredEvent{
		{ID: "ev-2", Kind: screen.EventWindowChange, OwnerID: "com.example.mock", Timestamp: 1700000000002},
		{ID: "ev-1", Kind: screen.EventContentChange, OwnerID: "com.example.mock", Timestamp: 1700000000001},
	}
	server := NewServer(mock)

	result, err := server.handleRecentEvents(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := getTextContent(result)
	if !strings.HasPrefix(text, "2 recent events:") {
		t.Errorf("Expected event count header, got %q", text)
	}
	if !strings.Contains(text, "ev-2") || !strings.Contains(text, "window_change") {
		t.Errorf("Expected event payload in text, got:\n%s", text)
	}
}

func TestHandleRecentEvents_Limit(t *testing.T) {
	mock := NewMockApp()
	mock.Events = []StoredEvent{
		{ID: "ev-3", Timestamp: 3},
		{ID: "ev-2", Timestamp: 2},
		{ID: "ev-1", Timestamp: 1},
	}
	server := NewServer(mock)

	result, err := server.handleRecentEvents(context.Background(), makeToolRequest(map[string]interface{}{
		"limit": float64(2),
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(getTextContent(result), "2 recent events:") {
		t.Errorf("Expected 2 events, got %q", getTextContent(result))
	}
}

func TestHandleRecentEvents_Empty(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleRecentEvents(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(getTextContent(result), "0 recent events:") {
		t.Errorf("Expected empty events message, got %q", getTextContent(result))
	}
}

// ==================== status ====================

func TestHandleStatus_Connected(t *testing.T) {
	mock := NewMockApp()
	server := NewServer(mock)

	result, err := server.handleStatus(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := getTextContent(result)
	if !strings.Contains(text, "connected") || !strings.Contains(text, "test") {
		t.Errorf("Expected connected status with version, got %q", text)
	}
}

func TestHandleStatus_Disconnected(t *testing.T) {
	mock := NewMockApp()
	mock.Connected = false
	server := NewServer(mock)

	result, err := server.handleStatus(context.Background(), makeToolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(getTextContent(result), "disconnected") {
		t.Errorf("Expected disconnected status, got %q", getTextContent(result))
	}
}
