// Package cli runs the console's operator actions as one-shot commands.
// Every command drives the same dashboard workflows as the TUI; dialogs
// become terminal prompts and toasts become lines on stderr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/format"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/query"
	"github.com/studiowebux/adminctl/internal/session"
	"github.com/studiowebux/adminctl/internal/types"
)

// Options configures an App
type Options struct {
	Config  *config.Config
	Session *session.Session
	Logger  *slog.Logger

	In  io.Reader
	Out io.Writer // results
	Err io.Writer // prompts, notices and toasts

	AssumeYes   bool // accept every confirmation
	Interactive bool // stdin can answer prompts

	// Query is a JMESPath expression applied to structured output
	Query string

	// API overrides the HTTP client (tests)
	API dashboard.API
	// Clipboard overrides the system clipboard (tests)
	Clipboard func(string) error
}

// App is one CLI invocation
type App struct {
	dash    *dashboard.Dashboard
	printer *Printer
	logger  *slog.Logger
}

// New wires an App
func New(opts Options) (*App, error) {
	q, err := query.Compile(opts.Query)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	api := opts.API
	if api == nil {
		api = adminapi.New(adminapi.Options{
			BaseURL:   opts.Config.API.BaseURL,
			Timeout:   opts.Config.API.Timeout,
			UserAgent: opts.Config.API.UserAgent,
			Logger:    logger,
		}, opts.Session)
	}

	prompter := NewPrompter(opts.In, opts.Err, opts.AssumeYes, opts.Interactive)
	cfg := opts.Config.Dashboard
	cfg.UsersDelay = 0

	errOut := opts.Err
	dash := dashboard.New(api, opts.Session, prompter, dashboard.Options{
		Config:    cfg,
		Logger:    logger,
		Clipboard: opts.Clipboard,
		ToastSink: func(tone dialog.Tone, msg string) {
			fmt.Fprintf(errOut, "%s %s\n", tone.Icon(), msg)
		},
	})

	return &App{
		dash:    dash,
		printer: NewPrinter(opts.Out, opts.Config.Output, isTerminal(opts.Out)).WithQuery(q),
		logger:  logger,
	}, nil
}

// Error is a failed command. Its text is the message shown to the operator.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	if errors.Is(e.Err, action.ErrDeclined) {
		return "cancelled"
	}
	return adminapi.Message(e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Err: err}
}

// Stats prints the aggregate counters
func (a *App) Stats(ctx context.Context) error {
	if err := a.dash.LoadStats(ctx); err != nil {
		return fail(err)
	}
	stats := a.dash.Stats().Stats
	err := a.printer.Print(stats, func(t table.Writer) {
		t.AppendHeader(table.Row{"Tier", "Total", "Active"})
		for _, tier := range types.Tiers {
			c := stats.Tiers[tier]
			t.AppendRow(table.Row{format.Tier(tier), c.Total, c.Active})
		}
		t.AppendFooter(table.Row{"Requests today", format.Number(stats.RequestsToday), ""})
	})
	return err
}

// Payments prints the pending queue, optionally fuzzy filtered
func (a *App) Payments(ctx context.Context, filter string) error {
	if err := a.dash.LoadPayments(ctx); err != nil {
		return fail(err)
	}
	a.dash.Payments.SetFilter(filter)
	v := a.dash.Payments.View()
	if v.Items == nil {
		v.Items = []types.Payment{}
	}

	err := a.printer.Print(v.Items, func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "User", "Name", "Amount", "Tier", "Created", "Notes"})
		for _, p := range v.Items {
			t.AppendRow(table.Row{
				p.ID,
				format.Dash(p.UserEmail),
				format.Dash(p.UserName),
				format.Amount(p.Amount, p.Currency),
				format.Tier(p.Tier),
				format.DateTime(p.CreatedAt),
				format.Dash(p.Notes),
			})
		}
	})
	if err != nil {
		return err
	}
	switch {
	case len(v.Items) > 0:
	case v.Filter != "" && v.Total > 0:
		a.printer.Line("No payments match %q", v.Filter)
	default:
		a.printer.Line("%s", emptyText(v.Message, "No pending payments"))
	}
	return nil
}

// Users prints one users page
func (a *App) Users(ctx context.Context, page int, search string) error {
	if err := a.dash.LoadUsers(ctx, page, search); err != nil {
		return fail(err)
	}
	v := a.dash.Users.View()
	if v.Items == nil {
		v.Items = []types.User{}
	}

	out := types.UsersPage{Users: v.Items, Pagination: v.Pagination}
	err := a.printer.Print(out, func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "Email", "Name", "Tier", "Status", "Created"})
		for _, u := range v.Items {
			t.AppendRow(table.Row{
				u.ID,
				format.Dash(u.Email),
				format.Dash(u.FullName),
				format.Tier(u.CurrentTier),
				format.Dash(u.Status),
				format.Date(u.CreatedAt),
			})
		}
	})
	if err != nil {
		return err
	}

	if len(v.Items) == 0 {
		a.printer.Line("%s", emptyText(v.Message, "No users found"))
		return nil
	}
	a.printer.Line("%s", pageLine(v.Links, v.Pagination))
	return nil
}

func pageLine(links []listview.Link, p types.Pagination) string {
	summary := listview.Summary(p, "users")
	if len(links) == 0 {
		return summary
	}
	labels := make([]string, len(links))
	for i, l := range links {
		labels[i] = l.Label()
	}
	return strings.Join(labels, " ") + "   " + summary
}

func emptyText(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// Approve settles a pending payment positively
func (a *App) Approve(ctx context.Context, id int) error {
	if err := a.pendingPayment(ctx, id); err != nil {
		return err
	}
	return fail(a.dash.ApprovePayment(ctx, id))
}

// Reject settles a pending payment negatively
func (a *App) Reject(ctx context.Context, id int) error {
	if err := a.pendingPayment(ctx, id); err != nil {
		return err
	}
	return fail(a.dash.RejectPayment(ctx, id))
}

// pendingPayment loads the queue so the payment row exists to act on
func (a *App) pendingPayment(ctx context.Context, id int) error {
	if err := a.dash.LoadPayments(ctx); err != nil {
		return fail(err)
	}
	if _, ok := a.dash.FindPayment(id); !ok {
		return fmt.Errorf("payment #%d is not pending", id)
	}
	return nil
}

// DeleteUser removes an account after confirmation
func (a *App) DeleteUser(ctx context.Context, id int) error {
	if _, err := a.dash.LocateUser(ctx, id); err != nil {
		return fail(err)
	}
	return fail(a.dash.DeleteUser(ctx, id))
}

// ChangeTier changes the tier of an account. Without tier the new tier
// and notes are asked for.
func (a *App) ChangeTier(ctx context.Context, id int, tier, notes string) error {
	if _, err := a.dash.LocateUser(ctx, id); err != nil {
		return fail(err)
	}
	if tier == "" {
		return fail(a.dash.ChangeTier(ctx, id))
	}
	t, err := dashboard.ValidateTier(tier)
	if err != nil {
		return fail(err)
	}
	return fail(a.dash.ChangeTierTo(ctx, id, t, notes))
}

// CreateKey issues a new API key and prints it
func (a *App) CreateKey(ctx context.Context, in dashboard.KeyInput) error {
	key, err := a.dash.CreateKey(ctx, in)
	if err != nil {
		return fail(err)
	}
	return a.printer.Print(key, func(t table.Writer) {
		expires := "never"
		if key.ExpiresInDays != nil {
			expires = fmt.Sprintf("in %d days", *key.ExpiresInDays)
		}
		t.AppendRows([]table.Row{
			{"API key", key.APIKey},
			{"Tier", format.Tier(key.Tier)},
			{"Email", format.Dash(key.Email)},
			{"Expires", expires},
		})
	})
}

// KeyInfo lists the keys matching prefix
func (a *App) KeyInfo(ctx context.Context, prefix string) error {
	if err := a.dash.LookupKey(ctx, prefix); err != nil {
		return fail(err)
	}
	return a.printKeys()
}

func (a *App) printKeys() error {
	keys := a.dash.Keys.View().Items
	if keys == nil {
		keys = []types.KeyRecord{}
	}
	return a.printer.Print(types.KeyInfo{Count: len(keys), Keys: keys}, func(t table.Writer) {
		t.AppendHeader(table.Row{"Prefix", "Tier", "Owner", "Active", "Created", "Expires"})
		for _, k := range keys {
			t.AppendRow(table.Row{
				format.Untrusted(k.KeyPrefix),
				format.Tier(k.Tier),
				format.Dash(k.OwnerEmail),
				k.Active,
				format.Date(k.CreatedAt),
				format.Date(k.ExpiresAt),
			})
		}
	})
}

// KeyUsage prints the request history of a key
func (a *App) KeyUsage(ctx context.Context, prefix string) error {
	usage, err := a.dash.KeyUsage(ctx, prefix)
	if err != nil {
		return fail(err)
	}
	return a.printer.Print(usage, func(t table.Writer) {
		t.SetTitle(fmt.Sprintf("%s… (%s)", format.Untrusted(usage.KeyPrefix), format.Tier(usage.Tier)))
		t.AppendHeader(table.Row{"Date", "Requests"})
		for _, d := range usage.Daily {
			t.AppendRow(table.Row{format.Dash(d.Date), format.Number(d.Count)})
		}
		t.AppendFooter(table.Row{"Total", format.Number(usage.TotalRequests)})
	})
}

// KeyDeactivate disables a key after confirmation and prints its new state
func (a *App) KeyDeactivate(ctx context.Context, prefix string) error {
	if err := a.dash.DeactivateKey(ctx, prefix); err != nil {
		return fail(err)
	}
	return a.printKeys()
}
