package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studiowebux/adminctl/internal/cli"
	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/session"
	"github.com/studiowebux/adminctl/internal/types"
)

// newApp builds the CLI app for one command, asking for the admin key
// when the environment does not provide it
func newApp() (*cli.App, error) {
	key, err := cli.ReadCredential(os.Stderr)
	if err != nil {
		return nil, err
	}
	sess := session.New()
	sess.SetCredential(key)

	return cli.New(cli.Options{
		Config:      cfg,
		Session:     sess,
		Logger:      logger,
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		AssumeYes:   flagAssumeYes,
		Interactive: cli.IsInteractive(),
		Query:       flagQuery,
	})
}

// withApp adapts an App method to a cobra RunE, cancelling on Ctrl+C
func withApp(fn func(ctx context.Context, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return fn(ctx, app, args)
	}
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

// Flags for list commands
var (
	paymentsFilter string
	usersPage      int
	usersSearch    string
)

// Flags for change-tier
var (
	tierValue string
	tierNotes string
)

// Flags for create-key
var (
	keyTier  string
	keyEmail string
	keyDays  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request and key counters",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Stats(ctx)
	}),
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "List pending payments",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Payments(ctx, paymentsFilter)
	}),
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List one page of users",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Users(ctx, usersPage, usersSearch)
	}),
}

var approveCmd = &cobra.Command{
	Use:   "approve <payment-id>",
	Short: "Approve a pending payment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := parseID(args[0], "payment")
		if err != nil {
			return err
		}
		return app.Approve(ctx, id)
	}),
}

var rejectCmd = &cobra.Command{
	Use:   "reject <payment-id>",
	Short: "Reject a pending payment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := parseID(args[0], "payment")
		if err != nil {
			return err
		}
		return app.Reject(ctx, id)
	}),
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return app.DeleteUser(ctx, id)
	}),
}

var changeTierCmd = &cobra.Command{
	Use:   "change-tier <user-id>",
	Short: "Change the tier of a user",
	Long: `Change the tier of a user. Without --tier the new tier and notes are
asked for interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return app.ChangeTier(ctx, id, tierValue, tierNotes)
	}),
}

var createKeyCmd = &cobra.Command{
	Use:   "create-key",
	Short: "Issue a new API key",
	Long: `Issue a new API key. The plaintext key is printed once and cannot be
retrieved again.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.CreateKey(ctx, dashboard.KeyInput{Tier: keyTier, Email: keyEmail, Days: keyDays})
	}),
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Inspect or deactivate API keys by prefix",
}

var keyInfoCmd = &cobra.Command{
	Use:   "info <prefix>",
	Short: "List keys matching a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.KeyInfo(ctx, args[0])
	}),
}

var keyUsageCmd = &cobra.Command{
	Use:   "usage <prefix>",
	Short: "Show the daily request counts of a key",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.KeyUsage(ctx, args[0])
	}),
}

var keyDeactivateCmd = &cobra.Command{
	Use:   "deactivate <prefix>",
	Short: "Deactivate the key matching a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.KeyDeactivate(ctx, args[0])
	}),
}

func init() {
	paymentsCmd.Flags().StringVarP(&paymentsFilter, "filter", "f", "", "Fuzzy filter on email, name and notes")

	usersCmd.Flags().IntVarP(&usersPage, "page", "p", 1, "Page number")
	usersCmd.Flags().StringVarP(&usersSearch, "search", "s", "", "Server-side search on email and name")

	changeTierCmd.Flags().StringVarP(&tierValue, "tier", "t", "", "New tier ("+joinTiers()+")")
	changeTierCmd.Flags().StringVar(&tierNotes, "notes", "", "Notes stored with the change")

	createKeyCmd.Flags().StringVarP(&keyTier, "tier", "t", string(types.TierUltra), "Key tier ("+joinTiers()+")")
	createKeyCmd.Flags().StringVar(&keyEmail, "email", "", "Owner email")
	createKeyCmd.Flags().StringVar(&keyDays, "days", "", "Days until expiry (empty never expires)")

	keyCmd.AddCommand(keyInfoCmd, keyUsageCmd, keyDeactivateCmd)
}

func joinTiers() string {
	names := types.TierNames()
	out := names[0]
	for _, n := range names[1:] {
		out += "/" + n
	}
	return out
}
