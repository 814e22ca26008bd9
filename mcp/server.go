// Package mcp provides the MCP (Model Context Protocol) server for Peek.
// This allows external AI clients (like Claude Desktop) to inspect and drive
// the screen of the connected host.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"Peek/pkg/screen"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Type aliases from the shared screen package.
// This avoids code duplication and ensures type consistency.
type (
	Snapshot     = screen.Snapshot
	Element      = screen.Element
	Selector     = screen.Selector
	Address      = screen.Address
	ActionResult = screen.ActionResult
	WindowKind   = screen.WindowKind
	GlobalAction = screen.GlobalAction
	StoredEvent  = screen.StoredEvent
)

// AgentApp defines the methods the MCP server needs from the main App.
// This allows loose coupling between MCP and the main application.
type AgentApp interface {
	// Screen inspection
	CaptureScreen(kindFilter WindowKind) (*Snapshot, error)
	DescribeScreen() (string, error)

	// Interaction
	Tap(sel Selector) ActionResult
	LongPress(sel Selector) ActionResult
	TypeText(sel Selector, text string) ActionResult
	Scroll(sel *Selector, forward bool) ActionResult
	PerformGlobalAction(action GlobalAction) ActionResult
	LaunchPackage(pkg string) ActionResult

	// Events
	RecentEvents(limit int) ([]StoredEvent, error)

	// Status
	IsConnected() bool
	Version() string
}

// Server wraps the MCP server and exposes the Peek toolset over stdio.
type Server struct {
	app       AgentApp
	server    *server.MCPServer
	stdio     *server.StdioServer
	mu        sync.Mutex
	isRunning bool
}

// NewServer creates a new MCP server for Peek.
func NewServer(app AgentApp) *Server {
	mcpServer := server.NewMCPServer(
		"peek-screen-agent",
		app.Version(),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	s := &Server{
		app:    app,
		server: mcpServer,
	}

	s.registerTools()
	s.registerResources()

	return s
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Screen inspection tools
	s.registerScreenTools()

	// Interaction tools
	s.registerInteractTools()
}

// registerResources registers all MCP resources
func (s *Server) registerResources() {
	// Current screen resource
	s.server.AddResource(
		mcp.NewResource(
			"peek://screen",
			"Current screen snapshot",
			mcp.WithMIMEType("application/json"),
		),
		s.handleScreenResource,
	)

	// Rendered screen outline
	s.server.AddResource(
		mcp.NewResource(
			"peek://screen/outline",
			"Current screen rendered as an indented text outline",
			mcp.WithMIMEType("text/plain"),
		),
		s.handleScreenOutlineResource,
	)
}

// Start starts the MCP server (blocking - for CLI mode).
// This method blocks until the server shuts down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("MCP server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	return s.run()
}

// StartAsync starts the MCP server in a goroutine (non-blocking).
func (s *Server) StartAsync() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("MCP server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	go s.run()
	return nil
}

// run runs the MCP server (blocking).
func (s *Server) run() error {
	s.stdio = server.NewStdioServer(s.server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		<-sigChan
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "[MCP] Peek MCP Server started")
	err := s.stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[MCP] Server error: %v\n", err)
	}

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()

	return err
}

// Stop stops the MCP server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The server stops when stdin is closed or the context is cancelled.
	s.isRunning = false
}

// IsRunning returns whether the MCP server is running.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
