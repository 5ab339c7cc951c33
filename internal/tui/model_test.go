package tui

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/listview"
	"github.com/studiowebux/adminctl/internal/mock"
)

func TestNew_WithoutCredentialAsksForKey(t *testing.T) {
	m, _ := createTestModel(t, "")

	assert.Equal(t, ModeCredential, m.mode)
	assert.Contains(t, m.View(), "Admin key:")
	assert.Contains(t, m.View(), "no admin key")
}

func TestCredentialEntry(t *testing.T) {
	m, _ := createTestModel(t, "")
	key := mock.DefaultSeed().AdminKey

	typeText(m, key)
	assert.NotContains(t, m.View(), key, "admin key is masked")

	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, ModeNormal, m.mode)
	assert.True(t, m.session.HasCredential())

	m.Update(m.loadAll()())
	view := m.View()
	assert.Contains(t, view, "admin key set")
	assert.Contains(t, view, "Pending Payments (3)")
	assert.Contains(t, view, "lan@example.com")
}

func TestCredentialEntry_BlankKeyIsRejected(t *testing.T) {
	m, _ := createTestModel(t, "")

	typeText(m, "   ")
	press(m, "enter")

	assert.False(t, m.session.HasCredential())
	assert.Equal(t, "Please enter the admin key first", m.errorMsg)
}

func TestApprove_ConfirmedThroughDialog(t *testing.T) {
	m, srv := loaded(t)

	press(m, "j")
	done := start(press(m, "a"))

	awaitDialog(t, m, 0)
	assert.Contains(t, m.View(), "Approve payment #42?")

	press(m, "enter")
	res := finish(t, m, done)

	assert.NoError(t, res.err)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/admin/payments/42/approve"))
	assert.Len(t, m.dash.Payments.View().Items, 2)
	assert.Contains(t, m.View(), "Payment #42 approved")
}

func TestReject_CancelledDialogKeepsRow(t *testing.T) {
	m, srv := loaded(t)

	done := start(press(m, "x"))
	awaitDialog(t, m, 0)
	press(m, "n")
	res := finish(t, m, done)

	assert.Error(t, res.err)
	assert.Empty(t, m.errorMsg, "a declined confirmation is not an error")
	assert.Zero(t, srv.CountRequests(http.MethodPost, "/admin/payments/41/reject"))
	assert.Len(t, m.dash.Payments.View().Items, 3)

	row, ok := m.dash.Payments.Row("payment-41")
	require.True(t, ok)
	ctrl, _ := row.Control(dashboard.ControlReject)
	assert.True(t, ctrl.Enabled)
}

func TestRowActionsOnlyOnTheirTab(t *testing.T) {
	m, _ := loaded(t)

	press(m, "2")
	assert.Equal(t, dashboard.TabUsers, m.dash.Tab())
	assert.Nil(t, press(m, "a"), "approve does nothing on the users tab")

	press(m, "1")
	assert.Nil(t, press(m, "t"), "change tier does nothing on the payments tab")
}

func TestSearchUsers(t *testing.T) {
	m, _ := loaded(t)

	press(m, "/")
	assert.Equal(t, ModeSearch, m.mode)
	assert.Equal(t, dashboard.TabUsers, m.dash.Tab())

	typeText(m, "user0")
	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	m.Update(cmd())

	v := m.dash.Users.View()
	assert.Equal(t, "user0", v.Query.Search)
	assert.Len(t, v.Items, 9)
	assert.Contains(t, m.View(), `Search: "user0"`)
}

func TestUsersPaging(t *testing.T) {
	m, _ := loaded(t)
	press(m, "2")

	assert.Contains(t, m.View(), "Page 1/3 - Total: 45 users")

	cmd := press(m, "n")
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 2, m.dash.Users.Query().Page)

	cmd = press(m, "G")
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 3, m.dash.Users.Query().Page)
	assert.Nil(t, press(m, "n"), "no page after the last one")

	cmd = press(m, "g", "g")
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, m.dash.Users.Query().Page)
}

func TestGotoPage_OutOfRange(t *testing.T) {
	m, _ := loaded(t)
	press(m, "2", ":")
	require.Equal(t, ModeGoto, m.mode)

	typeText(m, "9")
	press(m, "enter")

	assert.Equal(t, "Page must be between 1 and 3", m.errorMsg)
	assert.Equal(t, 1, m.dash.Users.Query().Page)
}

func TestFilterPayments(t *testing.T) {
	m, _ := loaded(t)

	press(m, "f")
	typeText(m, "sam")
	assert.Len(t, m.dash.Payments.View().Items, 1, "filter applies while typing")

	press(m, "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "sam", m.dash.Payments.View().Filter)

	press(m, "esc")
	assert.Len(t, m.dash.Payments.View().Items, 3)
}

func TestFilterPayments_CancelRestores(t *testing.T) {
	m, _ := loaded(t)

	press(m, "f")
	typeText(m, "minh")
	press(m, "esc")

	assert.Equal(t, "", m.dash.Payments.View().Filter)
	assert.Len(t, m.dash.Payments.View().Items, 3)
}

func TestCreateKey_PromptSequence(t *testing.T) {
	m, _ := loaded(t)
	orig := clipboardWrite
	clipboardWrite = func(string) error { return nil }
	t.Cleanup(func() { clipboardWrite = orig })

	done := start(press(m, "c"))

	id := awaitDialog(t, m, 0)
	assert.Equal(t, dialog.KindPrompt, m.dialogReq.Kind)
	assert.Equal(t, "ultra", m.dialogInput.Value(), "tier defaults to ultra")
	press(m, "enter")

	id = awaitDialog(t, m, id)
	typeText(m, "new@example.com")
	press(m, "enter")

	id = awaitDialog(t, m, id)
	typeText(m, "30")
	press(m, "enter")

	awaitDialog(t, m, id)
	assert.Equal(t, dialog.ToneSuccess, m.dialogReq.Tone)
	assert.Contains(t, m.View(), "API key created")
	press(m, "enter")

	res := finish(t, m, done)
	assert.NoError(t, res.err)

	created := m.dash.KeysPanel().Created
	require.NotNil(t, created)
	assert.Equal(t, "new@example.com", created.Email)

	press(m, "3")
	assert.Contains(t, m.View(), created.APIKey)
	assert.Nil(t, press(m, "y"))
	assert.Empty(t, m.errorMsg)
}

func TestCreateKey_InvalidTierShowsError(t *testing.T) {
	m, srv := loaded(t)

	done := start(press(m, "c"))
	id := awaitDialog(t, m, 0)
	m.dialogInput.SetValue("gold")
	press(m, "enter")

	id = awaitDialog(t, m, id)
	press(m, "enter")
	id = awaitDialog(t, m, id)
	press(m, "enter")

	awaitDialog(t, m, id)
	assert.Equal(t, dialog.ToneError, m.dialogReq.Tone)
	press(m, "enter")

	res := finish(t, m, done)
	assert.Error(t, res.err)
	assert.Zero(t, srv.CountRequests(http.MethodPost, "/admin/keys/create"))
}

func TestKeyLookupAndDeactivate(t *testing.T) {
	m, srv := loaded(t)

	done := start(press(m, "l"))
	awaitDialog(t, m, 0)
	typeText(m, "ak_live_8f")
	press(m, "enter")
	finish(t, m, done)

	assert.Equal(t, dashboard.TabKeys, m.dash.Tab())
	require.Len(t, m.dash.Keys.View().Items, 1)
	assert.Contains(t, m.View(), "ak_live_8f3c")

	done = start(press(m, "d"))
	awaitDialog(t, m, 0)
	assert.Equal(t, dialog.KindConfirm, m.dialogReq.Kind)
	press(m, "y")
	res := finish(t, m, done)

	assert.NoError(t, res.err)
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/admin/keys/ak_live_8f3c/deactivate"))
	assert.False(t, m.dash.Keys.View().Items[0].Active)
}

func TestCopyKey_NothingCreated(t *testing.T) {
	m, _ := loaded(t)

	press(m, "y")
	assert.Equal(t, "No key created in this session", m.errorMsg)
}

func TestUnauthorizedKeyShowsPlaceholder(t *testing.T) {
	m, _ := createTestModel(t, "wrong")
	m.Update(m.loadAll()())

	view := m.View()
	assert.Contains(t, view, listview.InvalidCredentialText)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := loaded(t)

	press(m, "?")
	require.Equal(t, ModeHelp, m.mode)
	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Approve payment")

	assert.Nil(t, press(m, "q"), "q closes help instead of quitting")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestQuit(t *testing.T) {
	m, _ := loaded(t)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuit_ForceFromAnyMode(t *testing.T) {
	m, _ := createTestModel(t, "")
	require.Equal(t, ModeCredential, m.mode)

	cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindow(t *testing.T) {
	tests := []struct {
		cursor, n, height int
		start, end        int
	}{
		{0, 5, 10, 0, 5},
		{9, 30, 10, 0, 10},
		{10, 30, 10, 1, 11},
		{29, 30, 10, 20, 30},
	}
	for _, tt := range tests {
		start, end := window(tt.cursor, tt.n, tt.height)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
