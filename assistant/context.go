package assistant

import (
	"fmt"
	"strings"

	"github.com/haikentcode/csmpilot-sub000/client"
)

// BuildContext renders one customer's data as the pipe-delimited text
// block fed to the model. The same representation is used for the
// similarity pipeline's embeddings, so chat answers and peer matching
// see the account identically.
func BuildContext(detail *client.CustomerDetail, gong []client.GongMeeting) string {
	parts := []string{
		"Company: " + detail.Name,
		"Industry: " + detail.Industry,
		fmt.Sprintf("Annual Recurring Revenue: $%.2f", float64(detail.ARR)),
		"Health Score: " + string(detail.HealthScore),
		"Renewal Date: " + detail.RenewalDate.Format("2006-01-02"),
	}
	if len(detail.Products) > 0 {
		parts = append(parts, "Products: "+strings.Join(detail.Products, ", "))
	}

	if m := detail.Metrics; m != nil {
		parts = append(parts,
			fmt.Sprintf("Net Promoter Score: %d", m.NPS),
			"Usage Trend: "+m.UsageTrend,
			fmt.Sprintf("Active Users: %d", m.ActiveUsers),
			fmt.Sprintf("Renewal Rate: %.1f%%", float64(m.RenewalRate)),
			fmt.Sprintf("Seat Utilization: %.1f%%", float64(m.SeatUtilization)),
			fmt.Sprintf("Response Usage: %.1f%%", m.ResponseUsagePercentage),
		)
	}

	if n := len(detail.Feedback); n > 0 {
		titles := make([]string, 0, 3)
		for _, f := range detail.Feedback[:min(n, 3)] {
			titles = append(titles, f.Title)
		}
		parts = append(parts, "Recent Feedback: "+strings.Join(titles, ", "))
	}

	if n := len(detail.Meetings); n > 0 {
		summaries := make([]string, 0, 2)
		for _, m := range detail.Meetings[:min(n, 2)] {
			summaries = append(summaries, truncate(m.Summary, 100))
		}
		parts = append(parts, "Recent Meetings: "+strings.Join(summaries, "; "))
	}

	if n := len(gong); n > 0 {
		lines := make([]string, 0, 2)
		for _, g := range gong[:min(n, 2)] {
			line := g.MeetingTitle
			if g.OverallSentiment != "" {
				line += " (" + g.OverallSentiment + ")"
			}
			if g.MeetingSummary != "" {
				line += ": " + truncate(g.MeetingSummary, 100)
			}
			lines = append(lines, line)
		}
		parts = append(parts, "Recent Calls: "+strings.Join(lines, "; "))
	}

	return strings.Join(parts, " | ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
