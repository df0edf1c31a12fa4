package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/haikentcode/csmpilot-sub000/client"
)

// renewalWindow is how far ahead get_upcoming_renewals looks.
const renewalWindow = 30 * 24 * time.Hour

// CustomerHandler exposes the customer portfolio tools.
type CustomerHandler struct {
	client *client.Client
}

func NewCustomerHandler(c *client.Client) *CustomerHandler {
	return &CustomerHandler{client: c}
}

// RegisterTools registers the customer portfolio tools.
func (ch *CustomerHandler) RegisterTools(s *server.MCPServer) error {
	listTool := mcp.NewTool("list_customers",
		mcp.WithDescription("Get a list of all customers with optional filtering"),
		mcp.WithString("search", mcp.Description("Search customers by name or industry")),
		mcp.WithString("ordering", mcp.Description("Order by field (e.g., '-arr', 'renewal_date')")),
		mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
	)
	s.AddTool(listTool, ch.handleList)

	dashboardTool := mcp.NewTool("get_customer_dashboard",
		mcp.WithDescription("Get comprehensive dashboard data for a specific customer"),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("The ID of the customer")),
	)
	s.AddTool(dashboardTool, ch.handleDashboard)

	atRiskTool := mcp.NewTool("get_at_risk_customers",
		mcp.WithDescription("Get customers that are at risk of churning"),
	)
	s.AddTool(atRiskTool, ch.handleAtRisk)

	renewalsTool := mcp.NewTool("get_upcoming_renewals",
		mcp.WithDescription("Get customers with renewal dates in the next 30 days"),
	)
	s.AddTool(renewalsTool, ch.handleUpcomingRenewals)

	return nil
}

func (ch *CustomerHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := client.ListCustomersParams{PageSize: 20}
	if v, ok := req.GetArguments()["search"].(string); ok {
		params.Search = v
	}
	if v, ok := req.GetArguments()["ordering"].(string); ok {
		params.Ordering = v
	}
	if v, ok := req.GetArguments()["page"].(float64); ok && v >= 1 {
		params.Page = int(v)
	}

	page, err := ch.client.ListCustomers(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list customers failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("# Customers\n\n")
	fmt.Fprintf(&b, "**Total:** %d (page %d of %d)\n\n", page.Total, page.Page, page.TotalPages)
	for _, c := range page.Customers {
		fmt.Fprintf(&b, "## %s (ID: %d)\n", c.Name, c.ID)
		fmt.Fprintf(&b, "- **Industry:** %s\n", c.Industry)
		fmt.Fprintf(&b, "- **ARR:** $%.0f\n", float64(c.ARR))
		fmt.Fprintf(&b, "- **Health Score:** %s\n", c.HealthScore)
		fmt.Fprintf(&b, "- **Renewal Date:** %s\n\n", c.RenewalDate.Format("2006-01-02"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (ch *CustomerHandler) handleDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("customer_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detail, err := ch.client.GetCustomerDashboard(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Dashboard\n\n", detail.Name)
	fmt.Fprintf(&b, "- **Industry:** %s\n", detail.Industry)
	fmt.Fprintf(&b, "- **ARR:** $%.0f\n", float64(detail.ARR))
	fmt.Fprintf(&b, "- **Health Score:** %s\n", detail.HealthScore)
	fmt.Fprintf(&b, "- **Sentiment:** %s\n", detail.Sentiment)
	fmt.Fprintf(&b, "- **Renewal Date:** %s\n\n", detail.RenewalDate.Format("2006-01-02"))

	if m := detail.Metrics; m != nil {
		b.WriteString("## Metrics\n")
		fmt.Fprintf(&b, "- **NPS:** %d\n", m.NPS)
		fmt.Fprintf(&b, "- **Usage Trend:** %s\n", m.UsageTrend)
		fmt.Fprintf(&b, "- **Active Users:** %d\n", m.ActiveUsers)
		fmt.Fprintf(&b, "- **Renewal Rate:** %.1f%%\n", float64(m.RenewalRate))
		fmt.Fprintf(&b, "- **Seat Utilization:** %.1f%%\n", float64(m.SeatUtilization))
		fmt.Fprintf(&b, "- **Response Usage:** %d/%d (%.1f%%)\n\n", m.ResponseUsed, m.ResponseLimit, m.ResponseUsagePercentage)
	}

	if len(detail.Feedback) > 0 {
		b.WriteString("## Recent Feedback\n")
		for _, f := range detail.Feedback {
			fmt.Fprintf(&b, "- [%s] %s\n", f.Status, f.Title)
		}
		b.WriteString("\n")
	}

	if len(detail.Meetings) > 0 {
		b.WriteString("## Recent Meetings\n")
		for _, m := range detail.Meetings {
			fmt.Fprintf(&b, "- %s: %s\n", m.Date.Format("2006-01-02"), m.Summary)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (ch *CustomerHandler) handleAtRisk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	atRisk, err := ch.collectCustomers(ctx, func(c client.Customer) bool {
		return c.HealthScore == client.HealthAtRisk || c.HealthScore == client.HealthCritical
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("at-risk scan failed: %v", err)), nil
	}
	// Critical accounts first.
	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].HealthScore == client.HealthCritical && atRisk[j].HealthScore != client.HealthCritical
	})

	var b strings.Builder
	b.WriteString("# At-Risk Customers\n\n")
	fmt.Fprintf(&b, "**Total At-Risk:** %d\n\n", len(atRisk))
	if len(atRisk) == 0 {
		b.WriteString("No customers currently at risk.\n")
	}
	for _, c := range atRisk {
		urgency := "AT RISK"
		if c.HealthScore == client.HealthCritical {
			urgency = "CRITICAL"
		}
		fmt.Fprintf(&b, "## [%s] %s (ID: %d)\n", urgency, c.Name, c.ID)
		fmt.Fprintf(&b, "- **ARR:** $%.0f\n", float64(c.ARR))
		fmt.Fprintf(&b, "- **Renewal Date:** %s\n", c.RenewalDate.Format("2006-01-02"))
		fmt.Fprintf(&b, "- **Industry:** %s\n\n", c.Industry)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (ch *CustomerHandler) handleUpcomingRenewals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	cutoff := now.Add(renewalWindow)
	upcoming, err := ch.collectCustomers(ctx, func(c client.Customer) bool {
		d := c.RenewalDate.Time
		return !d.IsZero() && !d.Before(now.Truncate(24*time.Hour)) && d.Before(cutoff)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("renewal scan failed: %v", err)), nil
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].RenewalDate.Time.Before(upcoming[j].RenewalDate.Time)
	})

	var b strings.Builder
	b.WriteString("# Upcoming Renewals\n\n")
	if len(upcoming) == 0 {
		b.WriteString("No renewals in the next 30 days.\n")
	}
	for _, c := range upcoming {
		fmt.Fprintf(&b, "## %s (ID: %d)\n", c.Name, c.ID)
		fmt.Fprintf(&b, "- **Renewal Date:** %s\n", c.RenewalDate.Format("2006-01-02"))
		fmt.Fprintf(&b, "- **ARR:** $%.0f\n", float64(c.ARR))
		fmt.Fprintf(&b, "- **Health Score:** %s\n\n", c.HealthScore)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// collectCustomers pages through the whole portfolio and keeps the rows
// matching keep. Backends cap page size at 100.
func (ch *CustomerHandler) collectCustomers(ctx context.Context, keep func(client.Customer) bool) ([]client.Customer, error) {
	var out []client.Customer
	for page := 1; ; page++ {
		res, err := ch.client.ListCustomers(ctx, client.ListCustomersParams{Page: page, PageSize: 100})
		if err != nil {
			return nil, err
		}
		for _, c := range res.Customers {
			if keep(c) {
				out = append(out, c)
			}
		}
		if page >= res.TotalPages || len(res.Customers) == 0 {
			return out, nil
		}
	}
}
