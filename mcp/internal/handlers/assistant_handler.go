package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/haikentcode/csmpilot-sub000/assistant"
)

// AssistantHandler exposes the ask_copilot tool.
type AssistantHandler struct {
	svc *assistant.Service
}

func NewAssistantHandler(svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// RegisterTools registers the assistant tools.
func (ah *AssistantHandler) RegisterTools(s *server.MCPServer) error {
	askTool := mcp.NewTool("ask_copilot",
		mcp.WithDescription("Ask the CSM copilot a question about a customer; the answer is grounded in the customer's dashboard data and recent calls"),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("The ID of the customer")),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to answer")),
		mcp.WithString("conversation_id", mcp.Description("Conversation ID from a previous answer, for follow-ups")),
	)
	s.AddTool(askTool, ah.handleAsk)
	return nil
}

func (ah *AssistantHandler) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("customer_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conversationID, _ := req.GetArguments()["conversation_id"].(string)

	answer, err := ah.svc.Ask(ctx, id, conversationID, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n_conversation: %s_", answer.Reply, answer.ConversationID)), nil
}
