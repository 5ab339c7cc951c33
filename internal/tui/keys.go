package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/keybinds"
	"github.com/studiowebux/adminctl/internal/types"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Global keys (work in all modes)
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, msg.String()); ok && action == keybinds.ActionQuitForce {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormalKeys(msg)
	case ModeCredential, ModeSearch, ModeFilter, ModeGoto:
		return m.handleInputKeys(msg)
	case ModeDialog:
		return m.handleDialogKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	}
	return nil
}

// handleNormalKeys handles keys on the dashboard
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchSequence(keybinds.ContextDashboard, msg.String())
	if partial || !ok {
		return nil
	}

	tab := m.dash.Tab()
	switch action {
	case keybinds.ActionQuit:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionOpenHelp:
		m.prevMode = m.mode
		m.mode = ModeHelp
		m.updateHelpView()
		m.helpView.GotoTop()

	case keybinds.ActionSetCredential:
		return m.startInput(ModeCredential, "")

	case keybinds.ActionReload:
		if !m.session.HasCredential() {
			return m.startInput(ModeCredential, "")
		}
		return m.loadAll()

	case keybinds.ActionNextTab:
		m.switchTab(dashboard.Tabs[(int(tab)+1)%len(dashboard.Tabs)])
	case keybinds.ActionPrevTab:
		m.switchTab(dashboard.Tabs[(int(tab)+len(dashboard.Tabs)-1)%len(dashboard.Tabs)])
	case keybinds.ActionTabPayments:
		m.switchTab(dashboard.TabPayments)
	case keybinds.ActionTabUsers:
		m.switchTab(dashboard.TabUsers)
	case keybinds.ActionTabKeys:
		m.switchTab(dashboard.TabKeys)

	case keybinds.ActionNavigateUp:
		m.moveCursor(-1)
	case keybinds.ActionNavigateDown:
		m.moveCursor(1)

	case keybinds.ActionNextPage:
		if tab == dashboard.TabUsers {
			return m.stepUsersPage(1, 0)
		}
	case keybinds.ActionPrevPage:
		if tab == dashboard.TabUsers {
			return m.stepUsersPage(-1, 0)
		}
	case keybinds.ActionFirstPage:
		if tab == dashboard.TabUsers {
			return m.stepUsersPage(0, -1)
		}
		m.cursor[tab] = 0
	case keybinds.ActionLastPage:
		if tab == dashboard.TabUsers {
			return m.stepUsersPage(0, 1)
		}
		m.cursor[tab] = max(0, m.rowCount(tab)-1)
	case keybinds.ActionGotoPage:
		if tab == dashboard.TabUsers {
			return m.startInput(ModeGoto, "")
		}

	case keybinds.ActionApprove, keybinds.ActionReject:
		if tab == dashboard.TabPayments {
			return m.approveSelected(action == keybinds.ActionApprove)
		}
	case keybinds.ActionFilterPayments:
		if tab == dashboard.TabPayments {
			return m.startInput(ModeFilter, m.dash.Payments.View().Filter)
		}
	case keybinds.ActionClearFilter:
		if tab == dashboard.TabPayments && m.dash.Payments.View().Filter != "" {
			m.dash.Payments.SetFilter("")
			m.cursor[tab] = 0
		}

	case keybinds.ActionChangeTier:
		if tab == dashboard.TabUsers {
			return m.changeTierSelected()
		}
	case keybinds.ActionDeleteUser:
		if tab == dashboard.TabUsers {
			return m.deleteSelected()
		}
	case keybinds.ActionSearchUsers:
		m.switchTab(dashboard.TabUsers)
		return m.startInput(ModeSearch, m.dash.Users.Query().Search)

	case keybinds.ActionCreateKey:
		return m.createKey()
	case keybinds.ActionKeyLookup:
		m.switchTab(dashboard.TabKeys)
		return m.lookupKey()
	case keybinds.ActionKeyUsage:
		m.switchTab(dashboard.TabKeys)
		return m.keyUsage()
	case keybinds.ActionKeyDeactivate:
		if tab == dashboard.TabKeys {
			return m.deactivateKey()
		}
	case keybinds.ActionCopyKey:
		return m.copyCreatedKey()
	}
	return nil
}

// startInput switches to an inline input mode with value prefilled
func (m *Model) startInput(mode Mode, value string) tea.Cmd {
	m.mode = mode
	m.input = textinput.New()
	m.input.Width = max(20, m.width-20)

	switch mode {
	case ModeCredential:
		m.input.Prompt = "Admin key: "
		m.input.Placeholder = "paste the admin key"
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '•'
		m.input.CharLimit = CredentialCharLimit
	case ModeSearch:
		m.input.Prompt = "Search users: "
		m.input.Placeholder = "email or name"
		m.input.CharLimit = SearchCharLimit
	case ModeFilter:
		m.input.Prompt = "Filter payments: "
		m.input.CharLimit = SearchCharLimit
	case ModeGoto:
		m.input.Prompt = "Go to page: "
		m.input.CharLimit = GotoCharLimit
	}
	m.inputInitial = value
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// handleInputKeys handles keys of the inline inputs
func (m *Model) handleInputKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextInput, msg.String())
	if ok {
		switch action {
		case keybinds.ActionTextCancel:
			if m.mode == ModeFilter {
				m.dash.Payments.SetFilter(m.inputInitial)
			}
			m.stopInput()
			return nil
		case keybinds.ActionTextSubmit:
			mode, value := m.mode, m.input.Value()
			m.stopInput()
			return m.submitInput(mode, value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == ModeFilter {
		m.dash.Payments.SetFilter(m.input.Value())
		m.cursor[dashboard.TabPayments] = 0
	}
	return cmd
}

func (m *Model) stopInput() {
	m.input.Blur()
	m.mode = ModeNormal
}

func (m *Model) submitInput(mode Mode, value string) tea.Cmd {
	switch mode {
	case ModeCredential:
		return m.submitCredential(value)
	case ModeSearch:
		return m.searchUsers(value)
	case ModeFilter:
		m.dash.Payments.SetFilter(value)
	case ModeGoto:
		page, err := parsePage(value)
		if err != nil {
			return m.setErrorMessage(err.Error())
		}
		return m.gotoUsersPage(page)
	}
	return nil
}

// handleHelpKeys handles keys of the help overlay
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String())
	if !ok {
		return nil
	}
	switch action {
	case keybinds.ActionCloseHelp:
		m.mode = m.prevMode
		if m.mode == ModeHelp {
			m.mode = ModeNormal
		}
	case keybinds.ActionScrollUp:
		m.helpView.ScrollUp(1)
	case keybinds.ActionScrollDown:
		m.helpView.ScrollDown(1)
	}
	return nil
}

func (m *Model) switchTab(t dashboard.Tab) {
	if m.dash.Tab() != t {
		m.dash.SwitchTab(t)
	}
}

func (m *Model) moveCursor(delta int) {
	tab := m.dash.Tab()
	n := m.rowCount(tab)
	if n == 0 {
		m.cursor[tab] = 0
		return
	}
	m.cursor[tab] = min(max(m.cursor[tab]+delta, 0), n-1)
}

func (m *Model) rowCount(tab dashboard.Tab) int {
	switch tab {
	case dashboard.TabUsers:
		return len(m.dash.Users.View().Items)
	case dashboard.TabKeys:
		return len(m.dash.Keys.View().Items)
	default:
		return len(m.dash.Payments.View().Items)
	}
}

// clampCursor keeps the selection on a rendered row after the list changed
func (m *Model) clampCursor(tab dashboard.Tab, n int) int {
	c := m.cursor[tab]
	if c >= n {
		c = max(0, n-1)
		m.cursor[tab] = c
	}
	return c
}

func (m *Model) selectedPayment() (types.Payment, bool) {
	items := m.dash.Payments.View().Items
	if len(items) == 0 {
		return types.Payment{}, false
	}
	return items[m.clampCursor(dashboard.TabPayments, len(items))], true
}

func (m *Model) selectedUser() (types.User, bool) {
	items := m.dash.Users.View().Items
	if len(items) == 0 {
		return types.User{}, false
	}
	return items[m.clampCursor(dashboard.TabUsers, len(items))], true
}

func (m *Model) selectedKey() (types.KeyRecord, bool) {
	items := m.dash.Keys.View().Items
	if len(items) == 0 {
		return types.KeyRecord{}, false
	}
	return items[m.clampCursor(dashboard.TabKeys, len(items))], true
}
