package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/haikentcode/csmpilot-sub000/client"
)

// FeedbackHandler exposes the create_customer_feedback tool.
type FeedbackHandler struct {
	client *client.Client
}

func NewFeedbackHandler(c *client.Client) *FeedbackHandler {
	return &FeedbackHandler{client: c}
}

// RegisterTools registers the feedback tools.
func (fh *FeedbackHandler) RegisterTools(s *server.MCPServer) error {
	createTool := mcp.NewTool("create_customer_feedback",
		mcp.WithDescription("Create new feedback for a customer"),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("The ID of the customer")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Feedback title")),
		mcp.WithString("status", mcp.Description("Feedback status: open|in_progress|resolved|closed")),
		mcp.WithString("description", mcp.Description("Detailed feedback description")),
	)
	s.AddTool(createTool, fh.handleCreate)
	return nil
}

func (fh *FeedbackHandler) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("customer_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fbReq := client.CreateFeedbackRequest{Title: title}
	if v, ok := req.GetArguments()["status"].(string); ok {
		fbReq.Status = v
	}
	if v, ok := req.GetArguments()["description"].(string); ok {
		fbReq.Description = v
	}

	created, err := fh.client.CreateFeedback(ctx, id, fbReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create feedback failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Feedback created for customer %d:\n- **ID:** %d\n- **Title:** %s\n- **Status:** %s\n",
		id, created.ID, created.Title, created.Status)), nil
}
