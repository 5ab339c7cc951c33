package keybinds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Match(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		context Context
		key     string
		want    Action
		found   bool
	}{
		{"dashboard key", ContextDashboard, "a", ActionApprove, true},
		{"falls back to global", ContextDialog, "ctrl+c", ActionQuitForce, true},
		{"context wins over global", ContextDialog, "esc", ActionCancel, true},
		{"same key other context", ContextHelp, "q", ActionCloseHelp, true},
		{"unbound", ContextDashboard, "z", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Match(tt.context, tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_MatchSequence(t *testing.T) {
	r := NewDefaultRegistry()

	action, complete, partial := r.MatchSequence(ContextDashboard, "g")
	assert.Empty(t, action)
	assert.False(t, complete)
	assert.True(t, partial)

	action, complete, partial = r.MatchSequence(ContextDashboard, "g")
	assert.Equal(t, ActionFirstPage, action)
	assert.True(t, complete)
	assert.False(t, partial)

	// An interrupted sequence matches nothing and resets
	r.MatchSequence(ContextDashboard, "g")
	_, complete, _ = r.MatchSequence(ContextDashboard, "a")
	assert.False(t, complete)

	action, complete, _ = r.MatchSequence(ContextDashboard, "a")
	assert.True(t, complete)
	assert.Equal(t, ActionApprove, action)

	// Named keys are never held as pending
	action, complete, partial = r.MatchSequence(ContextDashboard, "up")
	assert.Equal(t, ActionNavigateUp, action)
	assert.True(t, complete)
	assert.False(t, partial)
}

func TestRegistry_Keys(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{"k", "up"}, r.Keys(ContextDashboard, ActionNavigateUp))
	assert.Equal(t, []string{"ctrl+c"}, r.Keys(ContextDashboard, ActionQuitForce))
	assert.Equal(t, "enter/y", r.KeyString(ContextDialog, ActionConfirm))
	assert.Equal(t, "unbound", r.KeyString(ContextDialog, ActionApprove))
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()
	clone.Register(ContextDashboard, "a", ActionReject)

	got, _ := r.Match(ContextDashboard, "a")
	assert.Equal(t, ActionApprove, got)
	got, _ = clone.Match(ContextDashboard, "a")
	assert.Equal(t, ActionReject, got)
}

func TestApplyConfig_ReplacesActionKeys(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, &Config{
		Dashboard: map[string]string{"approve": "A, ctrl+a"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "ctrl+a"}, r.Keys(ContextDashboard, ActionApprove))
	_, ok := r.Match(ContextDashboard, "a")
	assert.False(t, ok, "default key is dropped")
}

func TestApplyConfig_RejectsUnknownAction(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, &Config{Dashboard: map[string]string{"launch_rockets": "L"}})
	assert.ErrorContains(t, err, `unknown action "launch_rockets"`)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file uses defaults", func(t *testing.T) {
		r, err := LoadOrDefault(filepath.Join(dir, "none.json"))
		require.NoError(t, err)
		got, _ := r.Match(ContextDashboard, "x")
		assert.Equal(t, ActionReject, got)
	})

	t.Run("user file applied", func(t *testing.T) {
		path := filepath.Join(dir, "keybinds.json")
		require.NoError(t, SaveConfig(&Config{Version: "1.0", Dialog: map[string]string{"confirm": "enter"}}, path))

		r, err := LoadOrDefault(path)
		require.NoError(t, err)
		_, ok := r.Match(ContextDialog, "y")
		assert.False(t, ok)
	})

	t.Run("comments and trailing commas", func(t *testing.T) {
		path := filepath.Join(dir, "commented.json")
		data := `{
  // approve with ctrl+p
  "dashboard": {"approve": "ctrl+p",},
}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		r, err := LoadOrDefault(path)
		require.NoError(t, err)
		got, ok := r.Match(ContextDashboard, "ctrl+p")
		require.True(t, ok)
		assert.Equal(t, ActionApprove, got)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

		_, err := LoadOrDefault(path)
		assert.ErrorContains(t, err, "invalid keybinds.json format")
	})
}

func TestExportConfig_RoundTrip(t *testing.T) {
	defaults := NewDefaultRegistry()
	config := ExportConfig(defaults)
	assert.Equal(t, "enter,y", config.Dialog["confirm"])

	r := NewRegistry()
	require.NoError(t, ApplyConfig(r, config))
	for _, ctx := range Contexts {
		assert.ElementsMatch(t, defaults.List(ctx), r.List(ctx), ctx)
	}
}
