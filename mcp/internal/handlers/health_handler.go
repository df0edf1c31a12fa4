package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/haikentcode/csmpilot-sub000/client"
)

// HealthHandler exposes the get_health_summary tool.
type HealthHandler struct {
	client *client.Client
}

func NewHealthHandler(c *client.Client) *HealthHandler {
	return &HealthHandler{client: c}
}

// RegisterTools registers the health analytics tools.
func (hh *HealthHandler) RegisterTools(s *server.MCPServer) error {
	summaryTool := mcp.NewTool("get_health_summary",
		mcp.WithDescription("Get customer health score distribution analytics"),
	)
	s.AddTool(summaryTool, hh.handleSummary)
	return nil
}

func (hh *HealthHandler) handleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buckets, err := hh.client.HealthSummary(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("health summary failed: %v", err)), nil
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}

	var b strings.Builder
	b.WriteString("# Customer Health Summary\n\n")
	fmt.Fprintf(&b, "**Total Customers:** %d\n\n", total)
	for _, bucket := range buckets {
		fmt.Fprintf(&b, "## %s\n", bucket.HealthScore)
		pct := 0.0
		if total > 0 {
			pct = float64(bucket.Count) / float64(total) * 100
		}
		fmt.Fprintf(&b, "- **Count:** %d (%.1f%%)\n\n", bucket.Count, pct)
	}
	return mcp.NewToolResultText(b.String()), nil
}
