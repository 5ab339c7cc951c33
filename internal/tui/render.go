package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/format"
	"github.com/studiowebux/adminctl/internal/keybinds"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)
)

// controlActions maps row controls to the action that triggers them
var controlActions = map[string]keybinds.Action{
	dashboard.ControlApprove:    keybinds.ActionApprove,
	dashboard.ControlReject:     keybinds.ActionReject,
	dashboard.ControlTier:       keybinds.ActionChangeTier,
	dashboard.ControlDelete:     keybinds.ActionDeleteUser,
	dashboard.ControlDeactivate: keybinds.ActionKeyDeactivate,
}

func toneStyle(t dialog.Tone) lipgloss.Style {
	switch t {
	case dialog.ToneSuccess:
		return styleSuccess
	case dialog.ToneError:
		return styleError
	default:
		return styleTitle
	}
}

// renderMain renders the dashboard: header, stats, tabs, the current list
// and the footer
func (m *Model) renderMain() string {
	header := []string{
		m.renderTitle(),
		m.renderStats(),
		m.renderTabs(),
		"",
	}
	footer := []string{
		m.renderPagination(),
		m.renderToasts(),
		m.renderStatusBar(),
	}

	height := max(MinListHeight, m.height-HeaderLines-FooterLines)
	var body string
	switch m.dash.Tab() {
	case dashboard.TabUsers:
		body = m.renderUsers(height)
	case dashboard.TabKeys:
		body = m.renderKeys(height)
	default:
		body = m.renderPayments(height)
	}
	body = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)

	return strings.Join(header, "\n") + "\n" + body + "\n" + strings.Join(footer, "\n")
}

func (m *Model) renderTitle() string {
	title := styleTitle.Render("Admin Console")
	target := styleSubtle.Render(m.baseURL)

	key := styleError.Render("no admin key")
	if m.session.HasCredential() {
		key = styleSuccess.Render("admin key set")
	}
	busy := ""
	if m.running > 0 {
		busy = " " + m.spinner.View()
	}
	return fmt.Sprintf("%s  %s  [%s]%s", title, target, key, busy)
}

func (m *Model) renderStats() string {
	panel := m.dash.Stats()
	switch {
	case panel.Loading:
		return styleSubtle.Render("Loading stats...")
	case panel.Err != "":
		return styleError.Render("Stats: " + panel.Err)
	case panel.Stats == nil:
		return styleSubtle.Render("Stats not loaded")
	}

	parts := []string{"Requests today: " + styleWarning.Render(format.Number(panel.Stats.RequestsToday))}
	for _, tier := range types.Tiers {
		c := panel.Stats.Tiers[tier]
		parts = append(parts, fmt.Sprintf("%s %d/%d", format.Tier(tier), c.Active, c.Total))
	}
	return strings.Join(parts, styleSubtle.Render("  │  "))
}

func (m *Model) renderTabs() string {
	current := m.dash.Tab()
	var tabs []string
	for i, t := range dashboard.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		switch t {
		case dashboard.TabPayments:
			label += fmt.Sprintf(" (%d)", len(m.dash.Payments.View().Items))
		case dashboard.TabUsers:
			if total := m.dash.Users.View().Pagination.Total; total > 0 {
				label += fmt.Sprintf(" (%d)", total)
			}
		}
		if t == current {
			tabs = append(tabs, styleTabActive.Render(label))
		} else {
			tabs = append(tabs, styleSubtle.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}

// placeholder renders the status text of a list without rows
func placeholder[T any](v listview.View[T]) (string, bool) {
	if len(v.Items) > 0 {
		return "", false
	}
	switch {
	case v.Loading:
		return styleSubtle.Render("Loading..."), true
	case v.Status == listview.StatusUnauthorized || v.Status == listview.StatusError:
		return styleError.Render(v.Message), true
	case v.Status == listview.StatusEmpty:
		return styleSubtle.Render(v.Message), true
	case v.Filter != "" && v.Total > 0:
		return styleSubtle.Render("No rows match the filter"), true
	}
	return styleSubtle.Render("Not loaded"), true
}

// window returns the visible slice bounds keeping cursor on screen
func window(cursor, n, height int) (int, int) {
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(n, start+height)
}

// renderControls renders the action buttons of a row
func (m *Model) renderControls(row action.Row) string {
	var out []string
	for _, c := range row.Controls {
		switch {
		case c.Busy:
			out = append(out, m.spinner.View()+" "+c.Label)
		case !c.Enabled:
			out = append(out, styleSubtle.Render(c.Label))
		default:
			key := m.keybinds.KeyString(keybinds.ContextDashboard, controlActions[c.Name])
			out = append(out, fmt.Sprintf("[%s] %s", key, c.Label))
		}
	}
	return strings.Join(out, " ")
}

// renderRows lays out the rows of one list with a header line
func (m *Model) renderRows(tab dashboard.Tab, height int, head string, lines []string, rows []action.Row) string {
	out := []string{styleHeader.Render(head)}
	cursor := m.clampCursor(tab, len(lines))
	start, end := window(cursor, len(lines), height-1)
	for i := start; i < end; i++ {
		line := lines[i] + "  " + m.renderControls(rows[i])
		line = format.Truncate(line, max(10, m.width-1))
		if i == cursor {
			line = styleSelected.Render(line)
		} else if rows[i].State == action.StateBusy {
			line = styleSubtle.Render(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderPayments(height int) string {
	v := m.dash.Payments.View()
	if text, ok := placeholder(v); ok {
		return text
	}

	head := fmt.Sprintf("%-6s %-28s %-18s %-8s %-11s %-20s", "ID", "User", "Amount", "Tier", "Date", "Notes")
	lines := make([]string, len(v.Items))
	rows := make([]action.Row, len(v.Items))
	for i, p := range v.Items {
		lines[i] = fmt.Sprintf("#%-5d %-28s %-18s %-8s %-11s %-20s",
			p.ID,
			format.Truncate(format.Dash(p.UserEmail), 28),
			format.Amount(p.Amount, p.Currency),
			format.Tier(p.Tier),
			format.Date(p.CreatedAt),
			format.Truncate(format.Dash(p.Notes), 20))
		rows[i], _ = m.dash.Payments.Row(m.dash.Payments.Key(p))
	}
	return m.renderRows(dashboard.TabPayments, height, head, lines, rows)
}

func (m *Model) renderUsers(height int) string {
	v := m.dash.Users.View()
	search := ""
	if v.Query.Search != "" {
		search = styleWarning.Render(fmt.Sprintf("Search: %q", v.Query.Search)) + "\n"
	}
	if text, ok := placeholder(v); ok {
		return search + text
	}

	head := fmt.Sprintf("%-6s %-28s %-22s %-8s %-10s %-11s", "ID", "Email", "Name", "Tier", "Status", "Created")
	lines := make([]string, len(v.Items))
	rows := make([]action.Row, len(v.Items))
	for i, u := range v.Items {
		lines[i] = fmt.Sprintf("%-6d %-28s %-22s %-8s %-10s %-11s",
			u.ID,
			format.Truncate(format.Dash(u.Email), 28),
			format.Truncate(format.Dash(u.FullName), 22),
			format.Tier(u.CurrentTier),
			format.Dash(u.Status),
			format.Date(u.CreatedAt))
		rows[i], _ = m.dash.Users.Row(m.dash.Users.Key(u))
	}
	if search != "" {
		height--
	}
	return search + m.renderRows(dashboard.TabUsers, height, head, lines, rows)
}

func (m *Model) renderKeys(height int) string {
	panel := m.dash.KeysPanel()
	var top []string
	if panel.Created != nil {
		top = append(top, styleSuccess.Render("Created: ")+format.Untrusted(panel.Created.APIKey)+
			styleSubtle.Render(fmt.Sprintf("  (%s, press %s to copy)",
				format.Tier(panel.Created.Tier), m.keybinds.KeyString(keybinds.ContextDashboard, keybinds.ActionCopyKey))))
	}
	if panel.UsageErr != "" {
		top = append(top, styleError.Render("Usage: "+panel.UsageErr))
	} else if u := panel.Usage; u != nil {
		line := fmt.Sprintf("Usage of %s… (%s): %s requests", format.Untrusted(u.KeyPrefix), format.Tier(u.Tier), format.Number(u.TotalRequests))
		var days []string
		for _, d := range u.Daily[max(0, len(u.Daily)-7):] {
			days = append(days, fmt.Sprintf("%s %d", format.Untrusted(d.Date), d.Count))
		}
		if len(days) > 0 {
			line += styleSubtle.Render("  " + strings.Join(days, ", "))
		}
		top = append(top, line)
	}

	v := m.dash.Keys.View()
	var body string
	if v.Query.Search == "" && !v.Loading && len(v.Items) == 0 && v.Status != listview.StatusError && v.Status != listview.StatusUnauthorized {
		body = styleSubtle.Render(fmt.Sprintf("Press %s to look up keys by prefix, %s to create a key",
			m.keybinds.KeyString(keybinds.ContextDashboard, keybinds.ActionKeyLookup),
			m.keybinds.KeyString(keybinds.ContextDashboard, keybinds.ActionCreateKey)))
	} else if text, ok := placeholder(v); ok {
		body = text
	} else {
		head := fmt.Sprintf("%-14s %-8s %-28s %-9s %-11s %-11s", "Prefix", "Tier", "Owner", "Active", "Created", "Expires")
		lines := make([]string, len(v.Items))
		rows := make([]action.Row, len(v.Items))
		for i, k := range v.Items {
			active := styleError.Render(fmt.Sprintf("%-9s", "no"))
			if k.Active {
				active = styleSuccess.Render(fmt.Sprintf("%-9s", "yes"))
			}
			lines[i] = fmt.Sprintf("%-14s %-8s %-28s %s %-11s %-11s",
				format.Untrusted(k.KeyPrefix),
				format.Tier(k.Tier),
				format.Truncate(format.Dash(k.OwnerEmail), 28),
				active,
				format.Date(k.CreatedAt),
				format.Date(k.ExpiresAt))
			rows[i], _ = m.dash.Keys.Row(m.dash.Keys.Key(k))
		}
		body = m.renderRows(dashboard.TabKeys, height-len(top), head, lines, rows)
	}

	if len(top) == 0 {
		return body
	}
	return strings.Join(top, "\n") + "\n" + body
}

// renderPagination renders the users page links and summary
func (m *Model) renderPagination() string {
	if m.dash.Tab() != dashboard.TabUsers {
		return ""
	}
	v := m.dash.Users.View()
	if v.Status != listview.StatusReady {
		return ""
	}
	var links []string
	for _, l := range v.Links {
		switch l.Kind {
		case listview.LinkCurrent:
			links = append(links, styleTitle.Render(l.Label()))
		case listview.LinkEllipsis:
			links = append(links, styleSubtle.Render(l.Label()))
		default:
			links = append(links, l.Label())
		}
	}
	summary := styleSubtle.Render(listview.Summary(v.Pagination, "users"))
	if len(links) == 0 {
		return summary
	}
	return strings.Join(links, " ") + "   " + summary
}

func (m *Model) renderToasts() string {
	toasts := m.dash.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	var out []string
	for _, t := range toasts {
		out = append(out, toneStyle(t.Tone).Render(t.Tone.Icon()+" "+t.Text))
	}
	return format.Truncate(strings.Join(out, "  "), max(10, m.width-1))
}

// renderStatusBar renders the status bar at the bottom
func (m *Model) renderStatusBar() string {
	switch m.mode {
	case ModeCredential, ModeSearch, ModeFilter, ModeGoto:
		return m.input.View()
	}

	left := styleSubtle.Render(m.dash.Tab().String())
	right := ""
	switch {
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	default:
		right = styleSubtle.Render(fmt.Sprintf("%s: help | %s: reload | %s: quit",
			m.keybinds.KeyString(keybinds.ContextDashboard, keybinds.ActionOpenHelp),
			m.keybinds.KeyString(keybinds.ContextDashboard, keybinds.ActionReload),
			m.keybinds.KeyString(keybinds.ContextDashboard, keybinds.ActionQuit)))
	}

	spacing := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", spacing) + right
}
