package keybinds

import (
	"sort"
	"strings"
)

// Binding is one key mapped to an action
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// Registry maps keys to actions per context
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// pending holds the first key of a two-key sequence such as "gg"
	pending map[Context]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[Context]map[string]Action),
		pending:  make(map[Context]string),
	}
}

// Register binds key to action in context, replacing any previous binding
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple binds every key to the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unbind removes every key bound to action in context
func (r *Registry) Unbind(context Context, action Action) {
	for key, act := range r.bindings[context] {
		if act == action {
			delete(r.bindings[context], key)
		}
	}
}

// Match looks key up in context, then in the global context
func (r *Registry) Match(context Context, key string) (Action, bool) {
	if action, ok := r.bindings[context][key]; ok {
		return action, true
	}
	if action, ok := r.bindings[ContextGlobal][key]; ok {
		return action, true
	}
	return "", false
}

// MatchSequence handles doubled-key sequences. It returns the action, whether
// it is a complete match, and whether key started a sequence.
func (r *Registry) MatchSequence(context Context, key string) (Action, bool, bool) {
	if prev, ok := r.pending[context]; ok {
		delete(r.pending, context)
		action, ok := r.Match(context, prev+key)
		return action, ok, false
	}

	if r.startsSequence(context, key) {
		r.pending[context] = key
		return "", false, true
	}

	action, ok := r.Match(context, key)
	return action, ok, false
}

// startsSequence reports whether key doubled is bound in context
func (r *Registry) startsSequence(context Context, key string) bool {
	if len(key) != 1 {
		return false
	}
	_, ok := r.bindings[context][key+key]
	return ok
}

// ClearPending drops a half-typed sequence
func (r *Registry) ClearPending(context Context) {
	delete(r.pending, context)
}

// Keys returns the keys bound to action in context, falling back to global
func (r *Registry) Keys(context Context, action Action) []string {
	keys := keysFor(r.bindings[context], action)
	if len(keys) == 0 && context != ContextGlobal {
		keys = keysFor(r.bindings[ContextGlobal], action)
	}
	return keys
}

func keysFor(bindings map[string]Action, action Action) []string {
	var keys []string
	for key, act := range bindings {
		if act == action {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// KeyString returns the keys of action joined for display
func (r *Registry) KeyString(context Context, action Action) string {
	keys := r.Keys(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, "/")
}

// List returns the bindings of context followed by the global ones,
// sorted by key
func (r *Registry) List(context Context) []Binding {
	var out []Binding
	collect := func(ctx Context) {
		for key, action := range r.bindings[ctx] {
			out = append(out, Binding{Key: key, Action: action, Context: ctx})
		}
	}
	collect(context)
	if context != ContextGlobal {
		collect(ContextGlobal)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context == context
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	clone.Merge(r)
	return clone
}

// Merge copies the bindings of other over r
func (r *Registry) Merge(other *Registry) {
	for context, bindings := range other.bindings {
		for key, action := range bindings {
			r.Register(context, key, action)
		}
	}
}
