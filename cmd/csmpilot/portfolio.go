package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haikentcode/csmpilot-sub000/client"
)

func newListCustomersCmd() *cobra.Command {
	var search, ordering string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list-customers",
		Short: "List customers with optional search and ordering",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			res, err := c.ListCustomers(ctx, client.ListCustomersParams{
				Page:     page,
				PageSize: pageSize,
				Search:   search,
				Ordering: ordering,
			})
			if err != nil {
				log.Error().Err(err).Str("search", search).Msg("list customers failed")
				return err
			}

			dbg(res)
			fmt.Printf("Customers (%d total, page %d of %d):\n", res.Total, res.Page, res.TotalPages)
			for _, cu := range res.Customers {
				fmt.Printf("  %4d  %-30s  %-12s  $%10.0f  renews %s\n",
					cu.ID, cu.Name, cu.HealthScore, float64(cu.ARR), cu.RenewalDate.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Search by name or industry")
	cmd.Flags().StringVar(&ordering, "ordering", "", "Order by field (e.g., '-arr', 'renewal_date')")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size (max 100)")

	return cmd
}

func newGetCustomerCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "get-customer",
		Short: "Get one customer record",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			detail, err := c.GetCustomer(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("get customer failed")
				return err
			}

			dbg(detail)
			printCustomerHeader(detail)
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func newGetDashboardCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "get-dashboard",
		Short: "Get a customer with feedback, meetings and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			detail, err := c.GetCustomerDashboard(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("get dashboard failed")
				return err
			}

			dbg(detail)
			printCustomerHeader(detail)
			if m := detail.Metrics; m != nil {
				fmt.Printf("  NPS %d | %s usage | %d active users | %.1f%% seats | responses %d/%d\n",
					m.NPS, m.UsageTrend, m.ActiveUsers, float64(m.SeatUtilization), m.ResponseUsed, m.ResponseLimit)
			}
			if len(detail.Feedback) > 0 {
				fmt.Println("Feedback:")
				for _, f := range detail.Feedback {
					fmt.Printf("  [%s] %s\n", f.Status, f.Title)
				}
			}
			if len(detail.Meetings) > 0 {
				fmt.Println("Meetings:")
				for _, m := range detail.Meetings {
					fmt.Printf("  %s  %s\n", m.Date.Format("2006-01-02"), m.Summary)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func printCustomerHeader(detail *client.CustomerDetail) {
	fmt.Printf("%s (ID %d)\n", detail.Name, detail.ID)
	fmt.Printf("  %s | $%.0f ARR | %s | %s sentiment | renews %s\n",
		detail.Industry, float64(detail.ARR), detail.HealthScore, detail.Sentiment,
		detail.RenewalDate.Format("2006-01-02"))
}

func newHealthSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health-summary",
		Short: "Show the portfolio health-score distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			buckets, err := c.HealthSummary(ctx)
			if err != nil {
				log.Error().Err(err).Msg("health summary failed")
				return err
			}

			dbg(buckets)
			total := 0
			for _, b := range buckets {
				total += b.Count
			}
			fmt.Printf("Portfolio health (%d customers):\n", total)
			for _, b := range buckets {
				fmt.Printf("  %-10s %d\n", b.HealthScore, b.Count)
			}
			return nil
		},
	}
}

func newListFeedbackCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "list-feedback",
		Short: "List feedback items for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			items, err := c.ListFeedback(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("list feedback failed")
				return err
			}

			dbg(items)
			fmt.Printf("Feedback for customer %d (%d items):\n", customerID, len(items))
			for _, f := range items {
				fmt.Printf("  %4d  [%s] %s\n", f.ID, f.Status, f.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func newCreateFeedbackCmd() *cobra.Command {
	var customerID int
	var title, status, description string

	cmd := &cobra.Command{
		Use:   "create-feedback",
		Short: "Create a feedback item for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Int("customer_id", customerID).
				Str("title", title).
				Str("status", status).
				Str("service_url", serviceURL).
				Msg("creating feedback")

			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			start := time.Now()
			created, err := c.CreateFeedback(ctx, customerID, client.CreateFeedbackRequest{
				Title:       title,
				Status:      status,
				Description: description,
			})
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Int("customer_id", customerID).
					Str("title", title).
					Dur("elapsed", elapsed).
					Msg("create feedback failed")
				return err
			}

			dbg(created)
			fmt.Printf("Feedback created: %d - %s [%s]\n", created.ID, created.Title, created.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Feedback title (required)")
	cmd.Flags().StringVar(&status, "status", "", "Status: open|in_progress|resolved|closed")
	cmd.Flags().StringVar(&description, "description", "", "Detailed description (optional)")

	_ = cmd.MarkFlagRequired("customer-id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newListMeetingsCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "list-meetings",
		Short: "List CSM-logged meetings for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			meetings, err := c.ListMeetings(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("list meetings failed")
				return err
			}

			dbg(meetings)
			fmt.Printf("Meetings for customer %d (%d):\n", customerID, len(meetings))
			for _, m := range meetings {
				fmt.Printf("  %s  %s\n", m.Date.Format("2006-01-02"), m.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func newListGongMeetingsCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "list-gong-meetings",
		Short: "List recorded calls with AI annotations for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			meetings, err := c.ListGongMeetings(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("list gong meetings failed")
				return err
			}

			dbg(meetings)
			fmt.Printf("Recorded calls for customer %d (%d):\n", customerID, len(meetings))
			for _, m := range meetings {
				fmt.Printf("  %s  %s (%dm, %d participants, %s)\n",
					m.MeetingDate.Format("2006-01-02"), m.MeetingTitle,
					m.DurationMinutes, m.ParticipantCount, m.OverallSentiment)
				for _, in := range m.AIInsights.Insights {
					fmt.Printf("      [%s] %s\n", in.Category, in.Sentence)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}
