// Package action runs row-scoped mutations with confirmation, busy state
// and rollback.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/dialog"
)

// ErrDeclined is returned when the user did not confirm
var ErrDeclined = errors.New("action declined")

// Dialogs is what the executor needs from a dialog presenter
type Dialogs interface {
	Notify(ctx context.Context, tone dialog.Tone, title, body string) error
	Confirm(ctx context.Context, body string) (bool, error)
}

// Credentials yields the admin key or adminapi.ErrMissingCredential
type Credentials interface {
	Credential() (string, error)
}

// Toaster shows short-lived notifications
type Toaster interface {
	Toast(tone dialog.Tone, msg string)
}

// Rows is the row-state surface of a rendered list
type Rows interface {
	Begin(key, trigger string) (Snapshot, error)
	Restore(snap Snapshot)
	// Remove detaches the row and returns how many rows remain rendered
	Remove(key string) int
}

// Refresher reloads a list at its current position
type Refresher interface {
	Refresh(ctx context.Context) error
}

// List is a rendered list that rows belong to
type List interface {
	Rows
	Refresher
}

// Outcome is what happens to the row after a successful call
type Outcome int

const (
	// RemoveRow detaches the row (approve, reject, delete)
	RemoveRow Outcome = iota
	// ReloadList refetches the owning list (tier change)
	ReloadList
)

// Request is one row-scoped mutation
type Request struct {
	List    List
	RowKey  string
	Trigger string
	Confirm string
	Outcome Outcome

	// Call performs the remote mutation and returns the server message
	Call func(ctx context.Context) (string, error)

	// SuccessText is shown when the server sends no message
	SuccessText string
}

// Executor wraps remote mutations for the console
type Executor struct {
	dialogs Dialogs
	creds   Credentials
	toast   Toaster
	logger  *slog.Logger
}

// NewExecutor creates an Executor
func NewExecutor(dialogs Dialogs, creds Credentials, toast Toaster, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{dialogs: dialogs, creds: creds, toast: toast, logger: logger}
}

// Perform runs req: credential check, confirmation, busy row, call, then
// removal or reload on success and rollback plus an error notice on
// failure. The returned error is already shown to the user.
func (e *Executor) Perform(ctx context.Context, req Request) error {
	if _, err := e.creds.Credential(); err != nil {
		e.notifyError(ctx, err)
		return err
	}

	ok, err := e.dialogs.Confirm(ctx, req.Confirm)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	snap, err := req.List.Begin(req.RowKey, req.Trigger)
	if err != nil {
		e.logger.Debug("row not actionable", "row", req.RowKey, "error", err)
		return err
	}

	msg, err := req.Call(ctx)
	if err != nil {
		req.List.Restore(snap)
		e.logger.Warn("action failed", "row", req.RowKey, "action", req.Trigger, "error", err)
		e.notifyError(ctx, err)
		return fmt.Errorf("%s %s: %w", req.Trigger, req.RowKey, err)
	}

	e.logger.Info("action succeeded", "row", req.RowKey, "action", req.Trigger)
	if msg == "" {
		msg = req.SuccessText
	}

	switch req.Outcome {
	case RemoveRow:
		remaining := req.List.Remove(req.RowKey)
		e.toast.Toast(dialog.ToneSuccess, msg)
		if remaining == 0 {
			return e.refresh(ctx, req)
		}
	case ReloadList:
		e.toast.Toast(dialog.ToneSuccess, msg)
		return e.refresh(ctx, req)
	}
	return nil
}

func (e *Executor) refresh(ctx context.Context, req Request) error {
	// The mutation already succeeded; a failed reload shows in the list itself.
	if err := req.List.Refresh(ctx); err != nil {
		e.logger.Debug("refresh after action failed", "row", req.RowKey, "error", err)
	}
	return nil
}

func (e *Executor) notifyError(ctx context.Context, err error) {
	if nerr := e.dialogs.Notify(ctx, dialog.ToneError, "Error", adminapi.Message(err)); nerr != nil {
		e.logger.Debug("error notice not shown", "error", nerr)
	}
}
