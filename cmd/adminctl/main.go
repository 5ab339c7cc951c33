package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/session"
	"github.com/studiowebux/adminctl/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Resolved by the root PersistentPreRunE for every command
var (
	cfg    *config.Config
	logger *slog.Logger
)

// Flags for the root command, inherited by every subcommand
var (
	flagConfig    string
	flagBaseURL   string
	flagTimeout   time.Duration
	flagLogLevel  string
	flagOutput    string
	flagPerPage   int
	flagAssumeYes bool
	flagQuery     string
)

var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Admin console for the payments and API keys moderation queue",
	Long: `adminctl reviews pending payments, manages users and issues API keys
against the admin API.

Run without arguments to start the interactive console, or use a subcommand
for one-shot actions. The admin key is read from ` + config.CredentialEnv + `,
or asked for when stdin is a terminal. It is never stored.

Examples:
  adminctl                                # Start the interactive console
  adminctl payments --filter minh         # List pending payments
  adminctl approve 42                     # Approve payment #42 (asks first)
  adminctl users --page 2 --search gmail  # Second page of matching users
  adminctl change-tier 7 --tier premium -y
  adminctl create-key --tier ultra --days 30 -o json
  adminctl key usage ak_live_8f3c
  adminctl payments -q "[?tier=='ultra'].id"
  adminctl mock                           # Serve a fake admin API locally`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		c, err := config.Load(flagConfig, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.adminctl/config.yaml)")
	pf.StringVar(&flagBaseURL, "base-url", "", "Admin API root, e.g. http://localhost:5000")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Client timeout per request, e.g. 10s (0 disables)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	pf.StringVarP(&flagOutput, "output", "o", "", "Output format (table/json/yaml)")
	pf.IntVar(&flagPerPage, "per-page", 0, "Users per page")
	pf.StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to the output, e.g. \"[].user_email\"")
	pf.BoolVarP(&flagAssumeYes, "yes", "y", false, "Answer yes to every confirmation")

	rootCmd.AddCommand(
		statsCmd,
		paymentsCmd,
		usersCmd,
		approveCmd,
		rejectCmd,
		deleteUserCmd,
		changeTierCmd,
		createKeyCmd,
		keyCmd,
		mockCmd,
		keybindsCmd,
	)
}

// runTUI starts the interactive console. Only the environment can supply
// the admin key up front; otherwise the console asks for it.
func runTUI() error {
	sess := session.New()
	if key := strings.TrimSpace(os.Getenv(config.CredentialEnv)); key != "" {
		sess.SetCredential(key)
	}
	return tui.Run(cfg, sess)
}
