// Package dashboard sequences the console's loads and exposes every
// operator action as a single entry point shared by the TUI and the CLI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/notifier"
	"github.com/studiowebux/adminctl/internal/types"
)

// API is the subset of the admin API the dashboard drives
type API interface {
	Stats(ctx context.Context) (*types.Stats, error)
	Payments(ctx context.Context) ([]types.Payment, error)
	ApprovePayment(ctx context.Context, id int) error
	RejectPayment(ctx context.Context, id int) error
	Users(ctx context.Context, page, perPage int, search string) (*types.UsersPage, error)
	DeleteUser(ctx context.Context, id int) (string, error)
	ChangeTier(ctx context.Context, id int, tier types.Tier, notes string) (string, error)
	CreateKey(ctx context.Context, req types.CreateKeyRequest) (*types.CreatedKey, error)
	KeyInfo(ctx context.Context, prefix string) (*types.KeyInfo, error)
	DeactivateKey(ctx context.Context, prefix string) (string, error)
	KeyUsage(ctx context.Context, prefix string) (*types.KeyUsage, error)
}

// Dialogs is the dialog surface used by workflows
type Dialogs interface {
	action.Dialogs
	Prompt(ctx context.Context, body, defaultValue string) (string, bool, error)
}

// Tab is the visible panel
type Tab int

const (
	TabPayments Tab = iota
	TabUsers
	TabKeys
)

// Tabs lists the panels in display order
var Tabs = []Tab{TabPayments, TabUsers, TabKeys}

func (t Tab) String() string {
	switch t {
	case TabUsers:
		return "Users"
	case TabKeys:
		return "API Keys"
	default:
		return "Pending Payments"
	}
}

// StatsPanel is the aggregate counters panel
type StatsPanel struct {
	Loading bool
	Err     string
	Stats   *types.Stats
}

// Toast is a transient notification
type Toast struct {
	ID      uint64
	Tone    dialog.Tone
	Text    string
	Expires time.Time
}

// KeysPanel holds the key tools output besides the key list
type KeysPanel struct {
	Created  *types.CreatedKey
	Usage    *types.KeyUsage
	UsageErr string
}

// Options configures a Dashboard
type Options struct {
	Config   config.DashboardConfig
	Notifier *notifier.Notifier
	Logger   *slog.Logger

	// Clipboard copies created keys; defaults to the system clipboard
	Clipboard func(string) error

	// ToastSink additionally receives every toast (CLI output)
	ToastSink func(tone dialog.Tone, msg string)
}

// Dashboard owns the lists and panels of one console session
type Dashboard struct {
	api     API
	creds   action.Credentials
	dialogs Dialogs
	exec    *action.Executor
	cfg     config.DashboardConfig
	notify  *notifier.Notifier
	logger  *slog.Logger
	clip    func(string) error
	sink    func(dialog.Tone, string)

	Payments *listview.List[types.Payment]
	Users    *listview.List[types.User]
	Keys     *listview.List[types.KeyRecord]

	mu       sync.Mutex
	tab      Tab
	stats    StatsPanel
	keys     KeysPanel
	toasts   []Toast
	toastSeq uint64
}

// New wires a Dashboard
func New(api API, creds action.Credentials, dialogs Dialogs, opts Options) *Dashboard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Config.ToastDuration <= 0 {
		opts.Config.ToastDuration = 5 * time.Second
	}
	if opts.Config.PerPage < 1 {
		opts.Config.PerPage = 20
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	d := &Dashboard{
		api:     api,
		creds:   creds,
		dialogs: dialogs,
		cfg:     opts.Config,
		notify:  opts.Notifier,
		logger:  logger,
		clip:    copyFn,
		sink:    opts.ToastSink,
	}
	d.exec = action.NewExecutor(dialogs, creds, d, logger)
	d.Payments = newPaymentsList(api, opts.Notifier, logger)
	d.Users = newUsersList(api, opts.Config.PerPage, opts.Notifier, logger)
	d.Keys = newKeysList(api, opts.Notifier, logger)
	return d
}

// LoadAll runs the load chain: stats, then payments, then after a short
// delay the first users page. Later stages run only when stats loaded;
// payments and users fail independently. Re-running starts from scratch.
func (d *Dashboard) LoadAll(ctx context.Context) error {
	if err := d.LoadStats(ctx); err != nil {
		return err
	}

	if err := d.LoadPayments(ctx); err != nil {
		d.logger.Debug("payments stage failed", "error", err)
	}

	if d.cfg.UsersDelay > 0 {
		timer := time.NewTimer(d.cfg.UsersDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	if err := d.LoadUsers(ctx, 1, ""); err != nil {
		d.logger.Debug("users stage failed", "error", err)
	}
	return nil
}

// LoadStats refreshes the counters panel
func (d *Dashboard) LoadStats(ctx context.Context) error {
	if _, err := d.creds.Credential(); err != nil {
		d.setStats(StatsPanel{Err: listview.MissingCredentialText})
		return err
	}

	d.mu.Lock()
	d.stats.Loading = true
	d.mu.Unlock()
	d.notify.Broadcast()

	stats, err := d.api.Stats(ctx)
	if err != nil {
		msg := adminapi.Message(err)
		if adminapi.IsUnauthorized(err) {
			msg = listview.InvalidCredentialText
		}
		d.setStats(StatsPanel{Err: msg})
		d.logger.Warn("stats load failed", "error", err)
		return err
	}
	d.setStats(StatsPanel{Stats: stats})
	return nil
}

func (d *Dashboard) setStats(p StatsPanel) {
	d.mu.Lock()
	d.stats = p
	d.mu.Unlock()
	d.notify.Broadcast()
}

// Stats returns the counters panel
func (d *Dashboard) Stats() StatsPanel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// LoadPayments refreshes the pending queue
func (d *Dashboard) LoadPayments(ctx context.Context) error {
	return d.Payments.Load(ctx, listview.Query{Page: 1})
}

// LoadUsers loads one users page with the given search term
func (d *Dashboard) LoadUsers(ctx context.Context, page int, search string) error {
	return d.Users.Load(ctx, listview.Query{Page: page, Search: search})
}

// SearchUsers restarts the users list at page 1 with term
func (d *Dashboard) SearchUsers(ctx context.Context, term string) error {
	return d.LoadUsers(ctx, 1, term)
}

// GotoUsersPage keeps the current search and jumps to page
func (d *Dashboard) GotoUsersPage(ctx context.Context, page int) error {
	return d.LoadUsers(ctx, page, d.Users.Query().Search)
}

// FindPayment returns the rendered pending payment with id
func (d *Dashboard) FindPayment(id int) (types.Payment, bool) {
	return d.Payments.Find(paymentKey(id))
}

// LocateUser pages through the unfiltered users list until account id is
// rendered, leaving the list on that page
func (d *Dashboard) LocateUser(ctx context.Context, id int) (types.User, error) {
	for page := 1; ; page++ {
		if err := d.LoadUsers(ctx, page, ""); err != nil {
			return types.User{}, err
		}
		if u, ok := d.Users.Find(userKey(id)); ok {
			return u, nil
		}
		if page >= d.Users.View().Pagination.TotalPages {
			return types.User{}, &adminapi.RemoteError{Status: 404, Message: fmt.Sprintf("User #%d not found", id)}
		}
	}
}

// SwitchTab changes the visible panel
func (d *Dashboard) SwitchTab(t Tab) {
	d.mu.Lock()
	d.tab = t
	d.mu.Unlock()
	d.notify.Broadcast()
}

// Tab returns the visible panel
func (d *Dashboard) Tab() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

// Toast shows a transient notification (action.Toaster)
func (d *Dashboard) Toast(tone dialog.Tone, msg string) {
	if msg == "" {
		return
	}
	d.mu.Lock()
	d.toastSeq++
	d.toasts = append(d.toasts, Toast{
		ID:      d.toastSeq,
		Tone:    tone,
		Text:    msg,
		Expires: time.Now().Add(d.cfg.ToastDuration),
	})
	d.mu.Unlock()

	if d.sink != nil {
		d.sink(tone, msg)
	}
	d.notify.Broadcast()
	time.AfterFunc(d.cfg.ToastDuration, d.notify.Broadcast)
}

// Toasts returns the notifications that have not expired yet
func (d *Dashboard) Toasts() []Toast {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	live := d.toasts[:0]
	for _, t := range d.toasts {
		if now.Before(t.Expires) {
			live = append(live, t)
		}
	}
	d.toasts = live
	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

// KeysPanel returns the key tools output
func (d *Dashboard) KeysPanel() KeysPanel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keys
}

// showError surfaces a locally detected error through a notice
func (d *Dashboard) showError(ctx context.Context, err error) error {
	if nerr := d.dialogs.Notify(ctx, dialog.ToneError, "Error", adminapi.Message(err)); nerr != nil {
		d.logger.Debug("error notice not shown", "error", nerr)
	}
	return err
}

// isAbort reports errors that end a workflow without anything to show
func isAbort(err error) bool {
	return errors.Is(err, action.ErrDeclined) || errors.Is(err, context.Canceled)
}

func paymentKey(id int) string { return fmt.Sprintf("payment-%d", id) }
func userKey(id int) string    { return fmt.Sprintf("user-%d", id) }
func keyRowKey(prefix string) string {
	return "key-" + prefix
}
