package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/keybinds"
)

// syncDialog shows the dialog at the head of the queue. A new dialog starts
// with its input blurred and is focused after the configured delay.
func (m *Model) syncDialog() tea.Cmd {
	active, ok := m.dialogs.Current()
	if !ok {
		if m.mode == ModeDialog {
			m.closeDialog()
		}
		return nil
	}
	if m.mode == ModeDialog && active.ID == m.dialogID {
		return nil
	}

	if m.mode != ModeDialog {
		m.prevMode = m.mode
	}
	m.mode = ModeDialog
	m.dialogID = active.ID
	m.dialogReq = active.Request
	m.dialogFocused = false

	m.dialogInput.Blur()
	m.dialogInput.Reset()
	m.dialogInput.Placeholder = active.Request.InputPlaceholder
	m.dialogInput.SetValue(active.Request.InputDefault)
	m.dialogInput.CursorEnd()

	width := m.dialogWidth()
	m.dialogInput.Width = min(DialogInputWidth, width-6)
	m.dialogView.Width = width - 4
	m.dialogView.SetContent(lipgloss.NewStyle().Width(width - 4).Render(active.Request.Body))
	m.dialogView.Height = min(DialogBodyLines, max(1, m.dialogView.TotalLineCount()))
	m.dialogView.GotoTop()

	m.logger.Debug("dialog shown", "id", active.ID, "kind", active.Request.Kind)

	delay := time.Duration(0)
	if m.cfg != nil {
		delay = m.cfg.Dialog.FocusDelay
	}
	id := active.ID
	if delay <= 0 {
		return m.focusDialog(id)
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return dialogFocusMsg{id: id}
	})
}

// focusDialog focuses the prompt input once the dialog it was scheduled
// for is still the visible one
func (m *Model) focusDialog(id uint64) tea.Cmd {
	if m.mode != ModeDialog || id != m.dialogID || m.dialogFocused {
		return nil
	}
	m.dialogFocused = true
	if m.dialogReq.Kind == dialog.KindPrompt {
		return m.dialogInput.Focus()
	}
	return nil
}

func (m *Model) closeDialog() {
	m.dialogInput.Blur()
	m.dialogID = 0
	m.dialogReq = dialog.Request{}
	m.dialogFocused = false
	m.mode = m.prevMode
	if m.mode == ModeDialog {
		m.mode = ModeNormal
	}
}

// handleDialogKeys settles the visible dialog. Keys are always aimed at
// the id that was rendered, so a settled dialog never takes the next one.
func (m *Model) handleDialogKeys(msg tea.KeyMsg) tea.Cmd {
	id := m.dialogID

	if m.dialogReq.Kind == dialog.KindPrompt {
		if action, ok := m.keybinds.Match(keybinds.ContextInput, msg.String()); ok {
			switch action {
			case keybinds.ActionTextSubmit:
				m.dialogs.Accept(id, m.dialogInput.Value())
				return m.syncDialog()
			case keybinds.ActionTextCancel:
				m.dialogs.Cancel(id)
				return m.syncDialog()
			}
		}
		if !m.dialogFocused {
			return nil
		}
		var cmd tea.Cmd
		m.dialogInput, cmd = m.dialogInput.Update(msg)
		return cmd
	}

	action, ok := m.keybinds.Match(keybinds.ContextDialog, msg.String())
	if !ok {
		return nil
	}
	switch action {
	case keybinds.ActionConfirm:
		m.dialogs.Accept(id, "")
		return m.syncDialog()
	case keybinds.ActionCancel:
		m.dialogs.Cancel(id)
		return m.syncDialog()
	case keybinds.ActionScrollUp:
		m.dialogView.ScrollUp(1)
	case keybinds.ActionScrollDown:
		m.dialogView.ScrollDown(1)
	}
	return nil
}

func (m *Model) dialogWidth() int {
	return max(30, min(DialogMaxWidth, m.width-ModalWidthMargin))
}

// renderDialog renders the visible dialog centered on screen
func (m *Model) renderDialog() string {
	req := m.dialogReq
	title := req.Title
	if title == "" {
		title = "Notice"
	}

	parts := []string{
		toneStyle(req.Tone).Render(req.Tone.Icon() + " " + title),
		"",
		m.dialogView.View(),
	}
	if m.dialogView.TotalLineCount() > m.dialogView.Height {
		parts = append(parts, styleSubtle.Render(fmt.Sprintf("%3.f%%", m.dialogView.ScrollPercent()*100)))
	}

	var hint string
	switch req.Kind {
	case dialog.KindPrompt:
		parts = append(parts, "", m.dialogInput.View())
		hint = fmt.Sprintf("%s: OK | %s: Cancel",
			m.keybinds.KeyString(keybinds.ContextInput, keybinds.ActionTextSubmit),
			m.keybinds.KeyString(keybinds.ContextInput, keybinds.ActionTextCancel))
	case dialog.KindConfirm:
		hint = fmt.Sprintf("%s: OK | %s: Cancel",
			m.keybinds.KeyString(keybinds.ContextDialog, keybinds.ActionConfirm),
			m.keybinds.KeyString(keybinds.ContextDialog, keybinds.ActionCancel))
	default:
		hint = fmt.Sprintf("%s: Close", m.keybinds.KeyString(keybinds.ContextDialog, keybinds.ActionConfirm))
	}
	if waiting := m.dialogs.Waiting(); waiting > 0 {
		hint += fmt.Sprintf(" | %d more", waiting)
	}
	parts = append(parts, "", styleSubtle.Render(hint))

	border := colorBlue
	switch req.Tone {
	case dialog.ToneSuccess:
		border = colorGreen
	case dialog.ToneError:
		border = colorRed
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(m.dialogWidth()).
		Padding(1, 2).
		Render(strings.Join(parts, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHelp renders the help screen
func (m *Model) renderHelp() string {
	title := styleTitle.Render("Keyboard Shortcuts")
	footer := fmt.Sprintf("%s: scroll | %s: close",
		strings.Join([]string{
			m.keybinds.KeyString(keybinds.ContextHelp, keybinds.ActionScrollUp),
			m.keybinds.KeyString(keybinds.ContextHelp, keybinds.ActionScrollDown),
		}, " "),
		m.keybinds.KeyString(keybinds.ContextHelp, keybinds.ActionCloseHelp))

	fullContent := title + "\n\n" + m.helpView.View() + "\n\n" + styleSubtle.Render(footer)

	helpView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ModalWidthMargin).
		Height(m.height - ModalHeightMargin).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpView)
}

// updateHelpView rebuilds the help content from the active bindings
func (m *Model) updateHelpView() {
	m.helpView.Width = max(20, m.width-ModalWidthMargin-6)
	m.helpView.Height = max(3, m.height-ModalHeightMargin-8)

	type entry struct {
		keys []string
		desc string
	}
	byCategory := map[string]map[keybinds.Action]*entry{}

	for _, ctx := range []keybinds.Context{keybinds.ContextDashboard, keybinds.ContextDialog} {
		for _, b := range m.keybinds.List(ctx) {
			if !keybinds.KnownAction(b.Action) {
				continue
			}
			info := keybinds.GetActionInfo(b.Action)
			if info.Category == "Other" {
				continue
			}
			if byCategory[info.Category] == nil {
				byCategory[info.Category] = map[keybinds.Action]*entry{}
			}
			e, ok := byCategory[info.Category][b.Action]
			if !ok {
				e = &entry{desc: info.Description}
				byCategory[info.Category][b.Action] = e
			}
			if !contains(e.keys, b.Key) {
				e.keys = append(e.keys, b.Key)
			}
		}
	}

	var b strings.Builder
	for _, cat := range keybinds.Categories() {
		entries := byCategory[cat]
		if len(entries) == 0 {
			continue
		}
		list := make([]*entry, 0, len(entries))
		for _, e := range entries {
			sort.Strings(e.keys)
			list = append(list, e)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].desc < list[j].desc })

		b.WriteString(styleHeader.Render(strings.ToUpper(cat)) + "\n")
		for _, e := range list {
			fmt.Fprintf(&b, "  %-18s %s\n", strings.Join(e.keys, ", "), e.desc)
		}
		b.WriteString("\n")
	}

	m.helpView.SetContent(strings.TrimRight(b.String(), "\n"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
