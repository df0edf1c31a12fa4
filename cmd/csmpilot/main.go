// csmpilot is a command-line companion for the CSM dashboard backend:
// portfolio browsing, feedback capture and the AI copilot from a terminal.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haikentcode/csmpilot-sub000/assistant"
	"github.com/haikentcode/csmpilot-sub000/client"
)

var (
	serviceURL string
	debug      bool
	demoMode   bool
)

const commandTimeout = 30 * time.Second

func dbg(v interface{}) {
	if !debug {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csmpilot",
		Short: "CLI for the customer-success dashboard backend",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("CSM_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := getEnv("CSM_BACKEND_URL", "http://127.0.0.1:8000")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", defaultURL, "Base URL of the dashboard backend")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "Serve canned AI content when the AI pipeline is unavailable")

	rootCmd.AddCommand(newListCustomersCmd())
	rootCmd.AddCommand(newGetCustomerCmd())
	rootCmd.AddCommand(newGetDashboardCmd())
	rootCmd.AddCommand(newHealthSummaryCmd())
	rootCmd.AddCommand(newListFeedbackCmd())
	rootCmd.AddCommand(newCreateFeedbackCmd())
	rootCmd.AddCommand(newListMeetingsCmd())
	rootCmd.AddCommand(newListGongMeetingsCmd())
	rootCmd.AddCommand(newProfileSummaryCmd())
	rootCmd.AddCommand(newSimilarCustomersCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newUseCasesCmd())

	return rootCmd
}

// newSDK builds a client against --service-url. The caller owns Close.
func newSDK() (*client.Client, error) {
	opts := []client.Option{client.WithDemoMode(demoMode)}
	if key := os.Getenv("CSM_API_KEY"); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	return client.New(serviceURL, opts...)
}

// newAssistant wires the copilot on top of an SDK client. Without an
// OpenAI key the assistant degrades to data summaries.
func newAssistant(sdk *client.Client) (*assistant.Service, error) {
	key := os.Getenv("CSM_OPENAI_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	return assistant.New(sdk, key)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
