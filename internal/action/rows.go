package action

import (
	"errors"
	"sync"

	"github.com/studiowebux/adminctl/internal/notifier"
)

var (
	// ErrRowBusy means a mutation is already in flight for the row
	ErrRowBusy = errors.New("row is busy")
	// ErrRowMissing means the row is no longer rendered
	ErrRowMissing = errors.New("row not found")
)

// State is the lifecycle of one rendered row
type State int

const (
	StateIdle State = iota
	StateBusy
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateBusy:
		return "busy"
	case StateRemoved:
		return "removed"
	default:
		return "idle"
	}
}

// Control is one action button of a row
type Control struct {
	Name    string
	Label   string
	Enabled bool
	Busy    bool // render the busy indicator instead of Label
}

// Row is the view state of one row
type Row struct {
	Key      string
	State    State
	Controls []Control
}

// Control returns the named control
func (r Row) Control(name string) (Control, bool) {
	for _, c := range r.Controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control{}, false
}

// Snapshot is the row content captured when it went busy
type Snapshot struct {
	Key      string
	Controls []Control
}

// Table tracks the view state of every rendered row of one list
type Table struct {
	mu     sync.Mutex
	rows   map[string]*Row
	notify *notifier.Notifier
}

// NewTable creates an empty table
func NewTable(n *notifier.Notifier) *Table {
	return &Table{rows: make(map[string]*Row), notify: n}
}

// Reset replaces every row with a fresh Idle row per key. A row still
// Busy keeps its state and controls until its mutation settles.
func (t *Table) Reset(keys []string, controls []Control) {
	t.mu.Lock()
	rows := make(map[string]*Row, len(keys))
	for _, k := range keys {
		if r, ok := t.rows[k]; ok && r.State == StateBusy {
			rows[k] = r
			continue
		}
		rows[k] = &Row{Key: k, State: StateIdle, Controls: cloneControls(controls)}
	}
	t.rows = rows
	t.mu.Unlock()
	t.notify.Broadcast()
}

// Row returns a copy of the row's view state
func (t *Table) Row(key string) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[key]
	if !ok {
		return Row{}, false
	}
	cp := *r
	cp.Controls = cloneControls(r.Controls)
	return cp, true
}

// Begin moves an Idle row to Busy: every control is disabled and the
// trigger shows the busy indicator. The returned snapshot restores it.
func (t *Table) Begin(key, trigger string) (Snapshot, error) {
	t.mu.Lock()
	r, ok := t.rows[key]
	if !ok || r.State == StateRemoved {
		t.mu.Unlock()
		return Snapshot{}, ErrRowMissing
	}
	if r.State == StateBusy {
		t.mu.Unlock()
		return Snapshot{}, ErrRowBusy
	}

	snap := Snapshot{Key: key, Controls: cloneControls(r.Controls)}
	r.State = StateBusy
	for i := range r.Controls {
		r.Controls[i].Enabled = false
		r.Controls[i].Busy = r.Controls[i].Name == trigger
	}
	t.mu.Unlock()
	t.notify.Broadcast()
	return snap, nil
}

// Restore returns a busy row to Idle with exactly the snapshot content
func (t *Table) Restore(snap Snapshot) {
	t.mu.Lock()
	r, ok := t.rows[snap.Key]
	if ok {
		r.State = StateIdle
		r.Controls = cloneControls(snap.Controls)
	}
	t.mu.Unlock()
	if ok {
		t.notify.Broadcast()
	}
}

// Remove marks the row as detached
func (t *Table) Remove(key string) {
	t.mu.Lock()
	r, ok := t.rows[key]
	if ok {
		r.State = StateRemoved
	}
	t.mu.Unlock()
	if ok {
		t.notify.Broadcast()
	}
}

func cloneControls(in []Control) []Control {
	if in == nil {
		return nil
	}
	out := make([]Control, len(in))
	copy(out, in)
	return out
}
