// Package listview keeps paginated, searchable list views consistent with
// the admin API across overlapping loads and row mutations.
package listview

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/adminctl/internal/action"
	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/notifier"
	"github.com/studiowebux/adminctl/internal/types"
)

// ErrStale is returned by a load that finished after a newer load was issued
var ErrStale = errors.New("stale list response discarded")

// InvalidCredentialText is the placeholder for a rejected admin key
const InvalidCredentialText = "Invalid admin key"

// MissingCredentialText is the placeholder when no admin key is entered
const MissingCredentialText = "Please enter the admin key"

// Status is what the list body currently shows
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusEmpty
	StatusUnauthorized
	StatusError
)

// Query is the position of a list; only successful loads overwrite it
type Query struct {
	Page    int
	PerPage int
	Search  string
}

// Page is one fetched snapshot
type Page[T any] struct {
	Items      []T
	Pagination types.Pagination
}

// FetchFunc retrieves one page for q
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// Options configures a List
type Options[T any] struct {
	Name      string
	Fetch     FetchFunc[T]
	Key       func(T) string
	Controls  []action.Control
	PerPage   int
	EmptyText string

	// FilterText enables the local fuzzy filter
	FilterText func(T) string

	Notifier *notifier.Notifier
	Logger   *slog.Logger
}

// View is a consistent snapshot for rendering
type View[T any] struct {
	Status     Status
	Loading    bool
	Message    string
	Items      []T
	Total      int // rendered rows before filtering
	Pagination types.Pagination
	Links      []Link
	Query      Query
	Filter     string
}

// List owns one rendered collection
type List[T any] struct {
	opts   Options[T]
	rows   *action.Table
	notify *notifier.Notifier
	logger *slog.Logger

	mu         sync.Mutex
	issued     uint64
	loading    bool
	status     Status
	message    string
	items      []T
	pagination types.Pagination
	query      Query
	filter     string
}

// New creates an idle List starting at page 1
func New[T any](opts Options[T]) *List[T] {
	if opts.PerPage < 1 {
		opts.PerPage = 20
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &List[T]{
		opts:   opts,
		rows:   action.NewTable(opts.Notifier),
		notify: opts.Notifier,
		logger: logger.With("list", opts.Name),
		query:  Query{Page: 1, PerPage: opts.PerPage},
	}
}

// Name identifies the list in logs
func (l *List[T]) Name() string { return l.opts.Name }

// Query returns the parameters of the last successful load
func (l *List[T]) Query() Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Load fetches q and replaces the view. A response that arrives after a
// newer Load was issued is dropped and ErrStale returned.
func (l *List[T]) Load(ctx context.Context, q Query) error {
	_, err := l.load(ctx, q, false)
	return err
}

// Refresh reloads the current query. When that page came back empty it
// steps back toward page 1 until a page has items.
func (l *List[T]) Refresh(ctx context.Context) error {
	q := l.Query()
	for {
		page, err := l.load(ctx, q, true)
		if err != nil {
			return err
		}
		if len(page.Items) > 0 || q.Page <= 1 {
			return nil
		}
		next := q.Page - 1
		if tp := page.Pagination.TotalPages; tp >= 1 && tp < next {
			next = tp
		}
		l.logger.Debug("page emptied, falling back", "from", q.Page, "to", next)
		q.Page = next
	}
}

// load runs one fetch. With fallback set, an empty page beyond the first
// is not rendered so the caller can try an earlier one.
func (l *List[T]) load(ctx context.Context, q Query, fallback bool) (Page[T], error) {
	q = l.normalize(q)

	l.mu.Lock()
	l.issued++
	token := l.issued
	l.loading = true
	l.mu.Unlock()
	l.notify.Broadcast()

	page, err := l.opts.Fetch(ctx, q)

	l.mu.Lock()
	if token != l.issued {
		l.mu.Unlock()
		l.logger.Debug("discarding stale response", "token", token, "page", q.Page)
		return page, ErrStale
	}

	if err == nil && fallback && len(page.Items) == 0 && q.Page > 1 {
		l.mu.Unlock()
		return page, nil
	}

	l.loading = false
	if err != nil {
		l.applyError(err)
		l.mu.Unlock()
		l.rows.Reset(nil, nil)
		l.logger.Warn("list load failed", "page", q.Page, "error", err)
		return page, err
	}

	l.items = page.Items
	l.pagination = page.Pagination
	l.query = q
	l.message = ""
	l.status = StatusReady
	if len(page.Items) == 0 {
		l.status = StatusEmpty
		l.message = l.opts.EmptyText
	}
	keys := make([]string, len(page.Items))
	for i, it := range page.Items {
		keys[i] = l.opts.Key(it)
	}
	l.mu.Unlock()

	l.rows.Reset(keys, l.opts.Controls)
	return page, nil
}

// applyError renders a failure placeholder; the query is left as is
func (l *List[T]) applyError(err error) {
	l.items = nil
	l.pagination = types.Pagination{}
	switch {
	case errors.Is(err, adminapi.ErrMissingCredential):
		l.status = StatusError
		l.message = MissingCredentialText
	case adminapi.IsUnauthorized(err):
		l.status = StatusUnauthorized
		l.message = InvalidCredentialText
	default:
		l.status = StatusError
		l.message = adminapi.Message(err)
	}
}

func (l *List[T]) normalize(q Query) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	q.PerPage = l.opts.PerPage
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// SetFilter narrows the rendered rows locally without refetching
func (l *List[T]) SetFilter(term string) {
	l.mu.Lock()
	l.filter = strings.TrimSpace(term)
	l.mu.Unlock()
	l.notify.Broadcast()
}

// View returns a snapshot of the list for rendering
func (l *List[T]) View() View[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]T, len(l.items))
	copy(items, l.items)

	v := View[T]{
		Status:     l.status,
		Loading:    l.loading,
		Message:    l.message,
		Items:      items,
		Total:      len(items),
		Pagination: l.pagination,
		Query:      l.query,
		Filter:     l.filter,
	}
	if l.status == StatusReady {
		v.Links = PageLinks(l.pagination.Page, l.pagination.TotalPages)
	}
	if l.filter != "" && l.opts.FilterText != nil {
		v.Items = filterItems(items, l.filter, l.opts.FilterText)
	}
	return v
}

func filterItems[T any](items []T, term string, text func(T) string) []T {
	source := make([]string, len(items))
	for i, it := range items {
		source[i] = text(it)
	}
	matches := fuzzy.Find(term, source)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	sort.Ints(idx)

	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

// Key returns the row key of an item
func (l *List[T]) Key(item T) string { return l.opts.Key(item) }

// Row returns the view state of a rendered row
func (l *List[T]) Row(key string) (action.Row, bool) { return l.rows.Row(key) }

// Begin marks a row busy (action.Rows)
func (l *List[T]) Begin(key, trigger string) (action.Snapshot, error) {
	return l.rows.Begin(key, trigger)
}

// Restore rolls a row back (action.Rows)
func (l *List[T]) Restore(snap action.Snapshot) { l.rows.Restore(snap) }

// Remove detaches a row and returns the number of rows still rendered
func (l *List[T]) Remove(key string) int {
	l.mu.Lock()
	kept := l.items[:0:0]
	for _, it := range l.items {
		if l.opts.Key(it) != key {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(l.items)
	l.items = kept
	if removed && l.pagination.Total > 0 {
		l.pagination.Total--
	}
	remaining := len(kept)
	if remaining == 0 && l.status == StatusReady {
		l.status = StatusEmpty
		l.message = l.opts.EmptyText
	}
	l.mu.Unlock()

	l.rows.Remove(key)
	return remaining
}

// Find returns the rendered item with the given key
func (l *List[T]) Find(key string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if l.opts.Key(it) == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}
