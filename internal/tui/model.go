package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/keybinds"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/notifier"
	"github.com/studiowebux/adminctl/internal/session"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeCredential
	ModeSearch
	ModeFilter
	ModeGoto
	ModeDialog
	ModeHelp
)

// Deps are the collaborators a Model drives
type Deps struct {
	Config    *config.Config
	Session   *session.Session
	Dialogs   *dialog.Controller
	Dashboard *dashboard.Dashboard
	Notifier  *notifier.Notifier
	Keybinds  *keybinds.Registry
	Logger    *slog.Logger
	BaseURL   string
}

// Model represents the TUI state
type Model struct {
	// Core state
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Config
	session  *session.Session
	dialogs  *dialog.Controller
	dash     *dashboard.Dashboard
	keybinds *keybinds.Registry
	notify   *notifier.Notifier
	changes  chan struct{}
	logger   *slog.Logger
	baseURL  string

	mode     Mode
	prevMode Mode // restored when a dialog or the help overlay closes
	width    int
	height   int

	// Selected row per tab
	cursor map[dashboard.Tab]int

	// Inline input shared by credential, search, filter and goto modes
	input        textinput.Model
	inputInitial string // restored when a filter edit is cancelled

	// Dialog state
	dialogID      uint64
	dialogReq     dialog.Request
	dialogFocused bool
	dialogInput   textinput.Model
	dialogView    viewport.Model

	helpView viewport.Model
	spinner  spinner.Model

	// Footer
	statusMsg     string
	errorMsg      string
	fullStatusMsg string
	fullErrorMsg  string
	running       int // workflows in flight

	cleanupOnce sync.Once
}

// New creates a Model. Without an admin key it starts in credential entry.
func New(deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	dialogInput := textinput.New()
	dialogInput.Width = DialogInputWidth
	dialogInput.Prompt = "› "

	m := &Model{
		ctx:         ctx,
		cancel:      cancel,
		cfg:         deps.Config,
		session:     deps.Session,
		dialogs:     deps.Dialogs,
		dash:        deps.Dashboard,
		keybinds:    deps.Keybinds,
		notify:      deps.Notifier,
		changes:     deps.Notifier.Subscribe(),
		logger:      logger,
		baseURL:     deps.BaseURL,
		mode:        ModeNormal,
		cursor:      make(map[dashboard.Tab]int),
		input:       textinput.New(),
		dialogInput: dialogInput,
		dialogView:  viewport.New(DialogMaxWidth-4, DialogBodyLines),
		helpView:    viewport.New(80, 20),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleWarning)),
	}
	if m.keybinds == nil {
		m.keybinds = keybinds.NewDefaultRegistry()
	}
	if !m.session.HasCredential() {
		m.startInput(ModeCredential, "")
	}
	return m
}

// Init starts the spinner, the change subscription and, when an admin key
// is already set, the first load
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.waitForChange()}
	if m.session.HasCredential() {
		cmds = append(cmds, m.loadAll())
	} else {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Cleanup aborts outstanding workflows and releases the subscription
func (m *Model) Cleanup() {
	m.cleanupOnce.Do(func() {
		m.cancel()
		m.dialogs.CancelAll()
		m.notify.Unsubscribe(m.changes)
	})
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateHelpView()

	case changeMsg:
		cmd = tea.Batch(m.syncDialog(), m.waitForChange())

	case dialogFocusMsg:
		cmd = m.focusDialog(msg.id)

	case workflowDoneMsg:
		cmd = m.finishWorkflow(msg)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)

	case clearStatusMsg:
		m.statusMsg = ""
		m.fullStatusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	default:
		// Cursor blink and other component messages
		switch m.mode {
		case ModeDialog:
			m.dialogInput, cmd = m.dialogInput.Update(msg)
		case ModeCredential, ModeSearch, ModeFilter, ModeGoto:
			m.input, cmd = m.input.Update(msg)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeDialog:
		return m.renderDialog()
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

// Custom message types
type changeMsg struct{}

type dialogFocusMsg struct {
	id uint64
}

type workflowDoneMsg struct {
	name   string
	status string // shown in the footer on success
	err    error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

// waitForChange blocks on the notifier subscription
func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return changeMsg{}
	}
}

// finishWorkflow reports the outcome of a background workflow. Errors
// already shown in a dialog or rendered in a list only reach the log.
func (m *Model) finishWorkflow(msg workflowDoneMsg) tea.Cmd {
	m.running = max(0, m.running-1)

	if msg.err == nil {
		if msg.status != "" {
			return m.setStatusMessage(msg.status)
		}
		return nil
	}
	if errors.Is(msg.err, listview.ErrStale) {
		return nil
	}
	m.logger.Debug("workflow ended with error", "workflow", msg.name, "error", msg.err)
	if text := dashboard.Outcome(msg.err); text != "" {
		return m.setErrorMessage(text)
	}
	return nil
}

// truncateStatus keeps footer messages on one line
func truncateStatus(msg string) string {
	if len(msg) > StatusMaxLength {
		return msg[:StatusMaxLength-3] + "..."
	}
	return msg
}

// setStatusMessage shows msg in the footer until the toast duration passes
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusMsg = truncateStatus(msg)
	m.errorMsg = ""
	m.fullErrorMsg = ""
	return tea.Tick(m.messageTimeout(), func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// setErrorMessage shows msg in the footer until the toast duration passes
func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncateStatus(msg)
	return tea.Tick(m.messageTimeout(), func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func (m *Model) messageTimeout() time.Duration {
	if m.cfg != nil && m.cfg.Dashboard.ToastDuration > 0 {
		return m.cfg.Dashboard.ToastDuration
	}
	return 5 * time.Second
}
