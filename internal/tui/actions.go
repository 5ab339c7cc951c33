package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/types"
)

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// runWorkflow runs fn in its own goroutine and reports back with a
// workflowDoneMsg
func (m *Model) runWorkflow(name, okStatus string, fn func(ctx context.Context) error) tea.Cmd {
	m.running++
	ctx := m.ctx
	logger := m.logger
	return func() tea.Msg {
		logger.Debug("workflow started", "workflow", name)
		err := fn(ctx)
		return workflowDoneMsg{name: name, status: okStatus, err: err}
	}
}

func (m *Model) loadAll() tea.Cmd {
	return m.runWorkflow("load all", "", m.dash.LoadAll)
}

// submitCredential stores the typed admin key and reloads everything
func (m *Model) submitCredential(key string) tea.Cmd {
	m.session.SetCredential(key)
	if !m.session.HasCredential() {
		return m.setErrorMessage("Please enter the admin key first")
	}
	m.logger.Info("admin key entered")
	return tea.Batch(m.setStatusMessage("Admin key set"), m.loadAll())
}

func (m *Model) searchUsers(term string) tea.Cmd {
	m.cursor[dashboard.TabUsers] = 0
	return m.runWorkflow("search users", "", func(ctx context.Context) error {
		return m.dash.SearchUsers(ctx, term)
	})
}

func (m *Model) gotoUsersPage(page int) tea.Cmd {
	v := m.dash.Users.View()
	if page < 1 || (v.Pagination.TotalPages > 0 && page > v.Pagination.TotalPages) {
		return m.setErrorMessage(fmt.Sprintf("Page must be between 1 and %d", max(1, v.Pagination.TotalPages)))
	}
	if page == v.Query.Page && v.Status == listview.StatusReady {
		return nil
	}
	m.cursor[dashboard.TabUsers] = 0
	return m.runWorkflow("users page", "", func(ctx context.Context) error {
		return m.dash.GotoUsersPage(ctx, page)
	})
}

// stepUsersPage moves by delta pages, or to the first or last page when
// edge is -1 or +1
func (m *Model) stepUsersPage(delta, edge int) tea.Cmd {
	p := m.dash.Users.View().Pagination
	if p.TotalPages <= 1 {
		return nil
	}
	switch {
	case edge < 0:
		return m.gotoUsersPage(1)
	case edge > 0:
		return m.gotoUsersPage(p.TotalPages)
	}
	next := p.Page + delta
	if next < 1 || next > p.TotalPages {
		return nil
	}
	return m.gotoUsersPage(next)
}

func parsePage(input string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("Invalid page number: %q", input)
	}
	return page, nil
}

func (m *Model) approveSelected(approve bool) tea.Cmd {
	p, ok := m.selectedPayment()
	if !ok {
		return nil
	}
	if approve {
		return m.runWorkflow("approve payment", "", func(ctx context.Context) error {
			return m.dash.ApprovePayment(ctx, p.ID)
		})
	}
	return m.runWorkflow("reject payment", "", func(ctx context.Context) error {
		return m.dash.RejectPayment(ctx, p.ID)
	})
}

func (m *Model) changeTierSelected() tea.Cmd {
	u, ok := m.selectedUser()
	if !ok {
		return nil
	}
	return m.runWorkflow("change tier", "", func(ctx context.Context) error {
		return m.dash.ChangeTier(ctx, u.ID)
	})
}

func (m *Model) deleteSelected() tea.Cmd {
	u, ok := m.selectedUser()
	if !ok {
		return nil
	}
	return m.runWorkflow("delete user", "", func(ctx context.Context) error {
		return m.dash.DeleteUser(ctx, u.ID)
	})
}

// createKey collects tier, email and validity through prompts
func (m *Model) createKey() tea.Cmd {
	return m.runWorkflow("create key", "", func(ctx context.Context) error {
		tier, ok, err := m.dialogs.Prompt(ctx, "Tier for the new key (free, premium, ultra):", string(types.TierUltra))
		if err != nil || !ok {
			return err
		}
		email, ok, err := m.dialogs.Prompt(ctx, "Owner email (optional):", "")
		if err != nil || !ok {
			return err
		}
		days, ok, err := m.dialogs.Prompt(ctx, "Valid for how many days? (empty = no expiry)", "")
		if err != nil || !ok {
			return err
		}
		_, err = m.dash.CreateKey(ctx, dashboard.KeyInput{Tier: tier, Email: email, Days: days})
		return err
	})
}

// selectedPrefix is the prefix of the selected key row, or ""
func (m *Model) selectedPrefix() string {
	if k, ok := m.selectedKey(); ok {
		return k.KeyPrefix
	}
	return ""
}

func (m *Model) lookupKey() tea.Cmd {
	m.cursor[dashboard.TabKeys] = 0
	last := m.dash.Keys.Query().Search
	return m.runWorkflow("key lookup", "", func(ctx context.Context) error {
		prefix, ok, err := m.dialogs.Prompt(ctx, "Key prefix to look up:", last)
		if err != nil || !ok {
			return err
		}
		return m.dash.LookupKey(ctx, prefix)
	})
}

func (m *Model) keyUsage() tea.Cmd {
	def := m.selectedPrefix()
	return m.runWorkflow("key usage", "", func(ctx context.Context) error {
		prefix, ok, err := m.dialogs.Prompt(ctx, "Show usage for key prefix:", def)
		if err != nil || !ok {
			return err
		}
		_, err = m.dash.KeyUsage(ctx, prefix)
		return err
	})
}

// deactivateKey acts on the selected key, or asks for a prefix when the
// list is empty
func (m *Model) deactivateKey() tea.Cmd {
	if prefix := m.selectedPrefix(); prefix != "" {
		return m.runWorkflow("deactivate key", "", func(ctx context.Context) error {
			return m.dash.DeactivateKey(ctx, prefix)
		})
	}
	return m.runWorkflow("deactivate key", "", func(ctx context.Context) error {
		prefix, ok, err := m.dialogs.Prompt(ctx, "Deactivate key with prefix:", "")
		if err != nil || !ok {
			return err
		}
		return m.dash.DeactivateKey(ctx, prefix)
	})
}

// copyCreatedKey copies the last created key again
func (m *Model) copyCreatedKey() tea.Cmd {
	created := m.dash.KeysPanel().Created
	if created == nil {
		return m.setErrorMessage("No key created in this session")
	}
	if err := clipboardWrite(created.APIKey); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to copy: %v", err))
	}
	m.dash.Toast(dialog.ToneSuccess, "Key copied to clipboard")
	return nil
}
