package tui

import (
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/mock"
	"github.com/studiowebux/adminctl/internal/session"
	"github.com/studiowebux/adminctl/internal/testutil"
)

// createTestModel wires a Model to the fake admin API. An empty key starts
// the model in credential entry.
func createTestModel(t *testing.T, key string) (*Model, *mock.Server) {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	srv := mock.NewServer(mock.DefaultSeed(), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		API: config.APIConfig{BaseURL: ts.URL},
		Dashboard: config.DashboardConfig{
			PerPage:       20,
			ToastDuration: time.Minute,
		},
		Log:    config.LogConfig{Level: "debug"},
		Output: "table",
	}

	sess := session.New()
	sess.SetCredential(key)
	client := adminapi.New(adminapi.Options{BaseURL: ts.URL, Logger: logger}, sess)

	m := Wire(cfg, sess, client, ts.URL, nil, logger)
	t.Cleanup(m.Cleanup)

	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m, srv
}

// loaded is createTestModel with the load chain already run
func loaded(t *testing.T) (*Model, *mock.Server) {
	t.Helper()
	m, srv := createTestModel(t, mock.DefaultSeed().AdminKey)
	m.Update(m.loadAll()())
	return m, srv
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends keys one by one and returns the command of the last one
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

// typeText types s into whichever input has focus
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// start runs a workflow command in the background
func start(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	return out
}

// finish waits for a background workflow and feeds its result back
func finish(t *testing.T, m *Model, done <-chan tea.Msg) workflowDoneMsg {
	t.Helper()
	select {
	case msg := <-done:
		m.Update(msg)
		res, ok := msg.(workflowDoneMsg)
		require.True(t, ok, "unexpected message %T", msg)
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("workflow did not finish")
	}
	return workflowDoneMsg{}
}

// awaitDialog waits for a dialog other than prev and shows it
func awaitDialog(t *testing.T, m *Model, prev uint64) uint64 {
	t.Helper()
	require.Eventually(t, func() bool {
		active, ok := m.dialogs.Current()
		return ok && active.ID != prev
	}, 5*time.Second, 5*time.Millisecond)
	m.syncDialog()
	require.Equal(t, ModeDialog, m.mode)
	return m.dialogID
}
