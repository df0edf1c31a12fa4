package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haikentcode/csmpilot-sub000/assistant"
)

func newProfileSummaryCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "profile-summary",
		Short: "Get the AI profile narrative for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			sum, err := c.GetProfileSummary(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("profile summary failed")
				return err
			}

			dbg(sum)
			fmt.Println(sum.Summary)
			printSection("Risks", sum.Risks)
			printSection("Opportunities", sum.Opportunities)
			printSection("Talk tracks", sum.TalkTracks)
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, it := range items {
		fmt.Printf("  - %s\n", it)
	}
}

func newSimilarCustomersCmd() *cobra.Command {
	var customerID, topK int

	cmd := &cobra.Command{
		Use:   "similar-customers",
		Short: "Find accounts most similar to a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			peers, err := c.GetSimilarCustomers(ctx, customerID, topK)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("similar customers failed")
				return err
			}

			dbg(peers)
			fmt.Printf("Accounts similar to customer %d:\n", customerID)
			for _, p := range peers {
				fmt.Printf("  %.2f  %s (ID %d, %s)\n", p.Score, p.Name, p.CustomerID, p.Industry)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	cmd.Flags().IntVar(&topK, "top-k", 5, "Number of peers to return")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func newAskCmd() *cobra.Command {
	var customerID int
	var question, conversationID string

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask the copilot a question grounded in a customer's data",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			svc, err := newAssistant(c)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			start := time.Now()
			answer, err := svc.Ask(ctx, customerID, conversationID, question)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Int("customer_id", customerID).
					Dur("elapsed", elapsed).
					Msg("ask failed")
				return err
			}

			log.Debug().
				Str("conversation_id", answer.ConversationID).
				Dur("elapsed", elapsed).
				Msg("ask completed")

			fmt.Println(answer.Reply)
			fmt.Printf("\n(conversation: %s)\n", answer.ConversationID)
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	cmd.Flags().StringVar(&question, "question", "", "Question to ask (required)")
	cmd.Flags().StringVar(&conversationID, "conversation-id", "", "Conversation ID for follow-ups")

	_ = cmd.MarkFlagRequired("customer-id")
	_ = cmd.MarkFlagRequired("question")

	return cmd
}

func newUseCasesCmd() *cobra.Command {
	var customerID int

	cmd := &cobra.Command{
		Use:   "use-cases",
		Short: "Suggest relevant product use cases for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDK()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			svc, err := newAssistant(c)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			detail, err := c.GetCustomer(ctx, customerID)
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("get customer failed")
				return err
			}

			cases, err := svc.FilterUseCases(ctx, assistant.UseCaseQuery{
				Products:     detail.Products,
				Industry:     detail.Industry,
				CustomerName: detail.Name,
				ARR:          float64(detail.ARR),
			})
			if err != nil {
				log.Error().Err(err).Int("customer_id", customerID).Msg("use-case filtering failed")
				return err
			}

			dbg(cases)
			fmt.Printf("Suggested use cases for %s:\n", detail.Name)
			for _, uc := range cases {
				fmt.Printf("  [%s] %s\n", uc.Category, uc.UseCase)
				if uc.Description != "" {
					fmt.Printf("      %s\n", uc.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "Customer ID (required)")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}
