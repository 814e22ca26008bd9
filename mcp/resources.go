package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"Peek/pkg/screen"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleScreenResource handles the peek://screen resource
func (s *Server) handleScreenResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := s.app.CaptureScreen("")
	if err != nil {
		if errors.Is(err, screen.ErrNoActiveWindow) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     `{"error":"no active window"}`,
				},
			}, nil
		}
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleScreenOutlineResource handles the peek://screen/outline resource
func (s *Server) handleScreenOutlineResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	outline, err := s.app.DescribeScreen()
	if err != nil {
		if errors.Is(err, screen.ErrNoActiveWindow) {
			outline = "no active window"
		} else {
			return nil, fmt.Errorf("failed to describe screen: %w", err)
		}
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     outline,
		},
	}, nil
}
